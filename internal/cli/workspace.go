package cli

import (
	"annotate-cli/internal/store"

	"github.com/spf13/cobra"
)

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Workspace management (the default workspace is fine for most uses)",
	}

	cmd.AddCommand(newWorkspaceUseCmd(app))
	cmd.AddCommand(newWorkspaceCurrentCmd(app))
	cmd.AddCommand(newWorkspaceListCmd(app))

	return cmd
}

func newWorkspaceUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Set current workspace (created when missing)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeWorkspaceName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := store.Store{Dir: dir}
			if err := s.Ensure(); err != nil {
				return writeErr(cmd, err)
			}

			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.CurrentWorkspace = name
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}

			app.Workspace = name
			app.Dir = dir
			app.logger().Info("workspace selected", "workspace", name, "dir", dir)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"workspace": name,
					"dir":       dir,
				},
				"_hints": []string{
					"annotate collections list",
				},
			})
		},
	}
	return cmd
}

func newWorkspaceCurrentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show current workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			name := cfg.Workspace()
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"workspace": name,
					"dir":       dir,
				},
			})
		},
	}
	return cmd
}

func newWorkspaceListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, current, err := store.DescribeWorkspaces()
			if err != nil {
				return writeErr(cmd, err)
			}
			names := make([]string, 0, len(details))
			for _, d := range details {
				names = append(names, d.Name)
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"workspaces":       names,
					"currentWorkspace": current,
				},
				"meta": map[string]any{
					"details": details,
				},
			})
		},
	}
	return cmd
}
