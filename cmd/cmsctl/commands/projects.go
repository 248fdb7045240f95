package commands

import (
	"fmt"
	"os"

	"github.com/baharimarine/compro/internal/services"
	"github.com/spf13/cobra"
)

func newImportProjectsCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "import-projects <file.xlsx>",
		Short: "Import projects from the first sheet of a workbook",
		Long: `Rows are matched to columns by header name. Rows duplicating an existing
project (same job no and project name) are skipped; invalid rows are reported
with their sheet row number.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := services.ParseProjectSheet(f)
			if err != nil {
				return err
			}

			cfg, err := env.config()
			if err != nil {
				return err
			}
			db, err := env.database()
			if err != nil {
				return err
			}

			svc := services.NewProjectService(db, services.NewWorkdayCalendar(cfg.Project.HolidayCountry))
			result, err := svc.Import(rows)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "inserted %d, skipped %d, failed %d\n", result.Inserted, result.Skipped, len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Message)
			}
			return nil
		},
	}
}
