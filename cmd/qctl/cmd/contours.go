package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/radforge/voxelstats/pkg/config"
	"github.com/radforge/voxelstats/pkg/contour"
	"github.com/spf13/cobra"
)

// NewContoursCmd creates the contours cobra command
func NewContoursCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contours",
		Short: "Trace slice contours from a structure mask",
		Long:  "Traces every Z slice of a raw uint8 mask into outer and hole polygons and writes them as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			maskPath, _ := cmd.Flags().GetString("mask")
			outPath, _ := cmd.Flags().GetString("out")
			splice, _ := cmd.Flags().GetBool("splice")

			if maskPath == "" && len(args) > 0 {
				maskPath = args[0]
			}
			if maskPath == "" {
				return fmt.Errorf("mask path is required. Use --mask flag or provide as argument")
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			smoothing, err := smoothingFromName(cfg.Contours.Smoothing)
			if err != nil {
				return err
			}
			mask, err := readRawMask(maskPath, cfg)
			if err != nil {
				return err
			}

			slices, err := contour.TraceVolume(mask, smoothing)
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "traced contours", "mask", maskPath, "slices", len(slices))

			var w io.Writer = os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if splice {
				return writeSpliced(w, slices)
			}
			enc := json.NewEncoder(w)
			return enc.Encode(slices)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "qctl.yaml", "YAML config path")
	pf.StringP("mask", "m", "", "raw uint8 mask path")
	pf.StringP("out", "o", "", "output JSON path (default stdout)")
	pf.Bool("splice", false, "splice hole rings into their outer ring")

	return cmd
}

// splicedSlice is the JSON shape for spliced output: one flat ring per
// connected region.
type splicedSlice struct {
	Slice int            `json:"slice"`
	Rings []contour.Ring `json:"rings"`
}

func writeSpliced(w io.Writer, slices []contour.SlicePolygons) error {
	out := make([]splicedSlice, 0, len(slices))
	for _, sp := range slices {
		ss := splicedSlice{Slice: sp.Slice}
		for _, p := range sp.Polygons {
			ring, err := contour.Splice(p)
			if err != nil {
				return err
			}
			ss.Rings = append(ss.Rings, ring)
		}
		out = append(out, ss)
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

func smoothingFromName(name string) (contour.Smoothing, error) {
	switch name {
	case "", "none":
		return contour.SmoothingNone, nil
	case "small":
		return contour.SmoothingSmall, nil
	default:
		return contour.SmoothingNone, fmt.Errorf("unknown smoothing %q (none|small)", name)
	}
}
