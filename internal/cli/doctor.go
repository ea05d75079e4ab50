package cli

import (
	"annotate-cli/internal/store"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check stored collections for data the annotation workflow cannot use",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := store.Store{Dir: dir}
			if err := s.Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			kv, err := s.OpenKV(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			report, err := store.Doctor(commandContext(cmd), kv)
			if err != nil {
				return writeErr(cmd, err)
			}

			meta := map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
			}
			hints := []string{
				"annotate collections list",
			}

			if err := writeOut(cmd, app, map[string]any{
				"data":   report,
				"meta":   meta,
				"_hints": hints,
			}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
