package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [source dir] [output dir]",
		Short: "Transform a source tree into the output directory",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcDir := "src"
			outDir := "dist"
			if len(args) > 0 {
				srcDir = args[0]
			}
			if len(args) > 1 {
				outDir = args[1]
			}
			return c.app.Build(cmd.Context(), srcDir, outDir)
		},
	}
	return cmd
}
