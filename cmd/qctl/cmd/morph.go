package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/radforge/voxelstats/pkg/config"
	"github.com/radforge/voxelstats/pkg/morphology"
	"github.com/radforge/voxelstats/pkg/volume"
	"github.com/spf13/cobra"
)

// NewMorphCmd creates the morph cobra command
func NewMorphCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "morph",
		Short: "Dilate or erode a structure mask",
		Long:  "Applies an ellipsoid dilation or erosion with the configured per-axis margins and writes the raw result mask.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			maskPath, _ := cmd.Flags().GetString("mask")
			restrictPath, _ := cmd.Flags().GetString("restrict")
			op, _ := cmd.Flags().GetString("op")
			outPath, _ := cmd.Flags().GetString("out")

			if maskPath == "" {
				return fmt.Errorf("mask path is required")
			}
			if outPath == "" {
				return fmt.Errorf("output path is required")
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			mask, err := readRawMask(maskPath, cfg)
			if err != nil {
				return err
			}

			var result *volume.Volume3D[uint8]
			switch op {
			case "dilate":
				var restriction *volume.Volume3D[uint8]
				if restrictPath != "" {
					if restriction, err = readRawMask(restrictPath, cfg); err != nil {
						return err
					}
				}
				result, err = morphology.Dilate(mask, cfg.Margins.X, cfg.Margins.Y, cfg.Margins.Z, restriction, nil)
			case "erode":
				result, err = morphology.Erode(mask, cfg.Margins.X, cfg.Margins.Y, cfg.Margins.Z, nil)
			default:
				return fmt.Errorf("unknown op %q (dilate|erode)", op)
			}
			if err != nil {
				return err
			}

			slog.InfoContext(ctx, "applied morphology",
				"op", op, "mask", maskPath,
				"marginX", cfg.Margins.X, "marginY", cfg.Margins.Y, "marginZ", cfg.Margins.Z)
			return writeRawMask(outPath, result)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "qctl.yaml", "YAML config path")
	pf.StringP("mask", "m", "", "raw uint8 mask path")
	pf.String("restrict", "", "restriction mask path (dilation never exits it)")
	pf.String("op", "dilate", "operation (dilate|erode)")
	pf.StringP("out", "o", "", "output mask path")

	return cmd
}
