package cmd

import (
	"context"
	"fmt"

	"github.com/radforge/voxelstats/pkg/config"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init cobra command
func NewInitCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  "Writes the default YAML configuration to disk as a starting point for editing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("out")
			if err := config.Save(config.Default(), outPath); err != nil {
				return err
			}
			fmt.Println("wrote", outPath)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("out", "o", "qctl.yaml", "config path to write")

	return cmd
}
