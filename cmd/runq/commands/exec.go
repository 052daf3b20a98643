package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run a single command and exit with its exit code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := c.app.Exec(cmd.Context(), args, runOptions(cmd))
			if err != nil {
				return err
			}
			if code != 0 {
				return &ExitCodeError{Code: code}
			}
			return nil
		},
	}
	// Flags after the command name belong to the command.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().Bool("journal", false, "Record the command in the journal")
	return cmd
}
