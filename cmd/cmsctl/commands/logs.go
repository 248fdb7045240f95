package commands

import (
	"errors"
	"fmt"

	"github.com/baharimarine/compro/internal/services"
	"github.com/spf13/cobra"
)

func newPruneLogsCommand(env *environment) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune-logs",
		Short: "Delete system log entries older than the given number of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return errors.New("--days must be at least 1")
			}
			db, err := env.database()
			if err != nil {
				return err
			}

			deleted, err := services.NewSystemLogService(db).CleanupOldLogs(days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d log entries\n", deleted)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 90, "retention in days")
	return cmd
}
