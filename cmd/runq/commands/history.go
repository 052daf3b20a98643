package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.trai.ch/runq/internal/core/domain"
)

func (c *CLI) newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List journaled commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := c.app.History()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, "No journaled commands.")
				return nil
			}

			failed := color.New(color.FgRed)
			for _, rec := range records {
				status := fmt.Sprintf("%3d", rec.ExitCode)
				if rec.ExitCode != 0 {
					status = failed.Sprint(status)
				}
				_, _ = fmt.Fprintf(out, "%4d  %s  %8s  %s  %s\n",
					rec.Sequence,
					status,
					rec.Duration.Round(time.Millisecond),
					rec.Dir,
					domain.FormatCommand(rec.Command, rec.Args),
				)
			}
			return nil
		},
	}
}
