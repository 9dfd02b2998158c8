package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/radforge/voxelstats/pkg/config"
	"github.com/radforge/voxelstats/pkg/stats"
	"github.com/radforge/voxelstats/pkg/util"
	"github.com/radforge/voxelstats/pkg/volume"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats cobra command
func NewStatsCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute the per-subject statistic table",
		Long:  "Loads raw structure masks plus an optional intensity volume and writes one CSV row per statistic.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			patient, _ := cmd.Flags().GetString("patient")
			maskArgs, _ := cmd.Flags().GetStringArray("mask")
			intensityPath, _ := cmd.Flags().GetString("intensity")
			outPath, _ := cmd.Flags().GetString("out")

			if patient == "" {
				return fmt.Errorf("patient id is required")
			}
			if len(maskArgs) == 0 {
				return fmt.Errorf("at least one --mask name=path is required")
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "computing statistics",
				"patient", patient, "run", util.RunID(patient, cfg), "structures", len(maskArgs))

			names := make([]string, 0, len(maskArgs))
			masks := make([]*volume.Volume3D[uint8], 0, len(maskArgs))
			for _, arg := range maskArgs {
				name, path, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("mask %q is not name=path", arg)
				}
				var mask *volume.Volume3D[uint8]
				if path != "" {
					if mask, err = readRawMask(path, cfg); err != nil {
						return err
					}
				}
				names = append(names, name)
				masks = append(masks, mask)
			}

			var intensity *volume.Volume3D[float32]
			if intensityPath != "" {
				if intensity, err = readRawIntensity(intensityPath, cfg); err != nil {
					return err
				}
			}

			calc, err := stats.NewCalculator(names, masks, intensity, stats.Options{
				ExactBoundaryROC:  cfg.Statistics.ExactBoundaryROC,
				PairwiseExternal:  cfg.Statistics.PairwiseExternal,
				GTAndSegmentation: cfg.Statistics.GTAndSegmentation,
				ExternalName:      cfg.Statistics.ExternalName,
			})
			if err != nil {
				return err
			}
			values := calc.Compute()

			var w io.Writer = os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating output: %w", err)
				}
				defer f.Close()
				w = f
			}
			return stats.WriteCSV(w, patient, values)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "qctl.yaml", "YAML config path")
	pf.StringP("patient", "p", "", "patient id for the CSV rows")
	pf.StringArrayP("mask", "m", nil, "structure mask as name=path (repeatable; empty path marks an absent structure)")
	pf.StringP("intensity", "i", "", "raw int16 intensity volume path")
	pf.StringP("out", "o", "", "output CSV path (default stdout)")

	return cmd
}
