package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/runq/internal/adapters/config" //nolint:depguard // Default script name
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the steps of a script file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("file")
			return c.app.Run(cmd.Context(), file, runOptions(cmd))
		},
	}
	cmd.Flags().StringP("file", "f", config.DefaultFilename, "Path to the script file or its directory")
	cmd.Flags().Bool("journal", false, "Record every completed command in the journal")
	return cmd
}
