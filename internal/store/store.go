package store

import (
	"os"
	"path/filepath"
)

// DefaultWorkspace is used when neither flags nor config name one.
const DefaultWorkspace = "default"

// Store is a workspace directory: the SQLite key-value database plus small best-effort
// state files (nav_state.json).
type Store struct {
	Dir string
}

// WorkspaceDir maps a workspace name to ~/.annotate/workspaces/<name>.
func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// Exists reports whether the workspace database has been created.
func (s Store) Exists() bool {
	_, err := os.Stat(s.sqlitePath())
	return err == nil
}

type WorkspaceInfo struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Initialized bool   `json:"initialized"`
	Current     bool   `json:"current,omitempty"`
}

// DescribeWorkspaces lists known workspaces with their directory and whether an
// annotation database exists there. Names that no longer map to a directory are skipped.
func DescribeWorkspaces() ([]WorkspaceInfo, string, error) {
	names, err := ListWorkspaces()
	if err != nil {
		return nil, "", err
	}
	cfg, err := LoadConfig()
	if err != nil {
		return nil, "", err
	}
	current := cfg.Workspace()

	out := make([]WorkspaceInfo, 0, len(names))
	for _, name := range names {
		dir, err := WorkspaceDir(name)
		if err != nil {
			continue
		}
		out = append(out, WorkspaceInfo{
			Name:        name,
			Path:        dir,
			Initialized: Store{Dir: dir}.Exists(),
			Current:     name == current,
		})
	}
	return out, current, nil
}
