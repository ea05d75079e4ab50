package cli

import (
	"path/filepath"

	"annotate-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize local storage (workspace-first)",
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

			// If we're in workspace mode but no current workspace is set, set it.
			if app.Workspace != "" {
				cfg, err := store.LoadConfig()
				if err == nil && cfg.CurrentWorkspace == "" {
					cfg.CurrentWorkspace = app.Workspace
					_ = store.SaveConfig(cfg)
				}
			}

			app.logger().Info("workspace initialized", "dir", dir, "workspace", app.Workspace)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":        dir,
					"workspace":  app.Workspace,
					"sqlitePath": filepath.Join(dir, store.SQLiteFileName),
				},
				"_hints": []string{
					"annotate collections import --name <name> --tasks <file>",
				},
			})
		},
	}
	return cmd
}
