package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type GlobalConfig struct {
	CurrentWorkspace string `json:"currentWorkspace,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// Theme selects the glamour style used for reports and help ("dark", "light", "notty").
	Theme string `json:"theme,omitempty"`
}

// Workspace is the configured current workspace, or DefaultWorkspace.
func (c *GlobalConfig) Workspace() string {
	if c == nil {
		return DefaultWorkspace
	}
	if name := strings.TrimSpace(c.CurrentWorkspace); name != "" {
		return name
	}
	return DefaultWorkspace
}

// Theme returns the configured TUI theme in lower case; empty means auto.
func (c *GlobalConfig) Theme() string {
	if c == nil || c.TUI == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.TUI.Theme))
}

// GlyphSet returns the configured glyph set in lower case; empty means unicode.
func (c *GlobalConfig) GlyphSet() string {
	if c == nil || c.TUI == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.TUI.Glyphs))
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.annotate).
	if v := strings.TrimSpace(os.Getenv("ANNOTATE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".annotate"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp name + rename so a TUI and a CLI writing at once never leave a torn file.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("workspace name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", errors.New("workspace name must be a plain directory name")
	}
	return name, nil
}

// ListWorkspaces returns the names under ~/.annotate/workspaces plus the current workspace, sorted.
func ListWorkspaces() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	outSet := map[string]struct{}{}

	wsRoot := filepath.Join(dir, "workspaces")
	if ents, err := os.ReadDir(wsRoot); err == nil {
		for _, e := range ents {
			if e.IsDir() {
				outSet[e.Name()] = struct{}{}
			}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(cfg.CurrentWorkspace); name != "" {
		outSet[name] = struct{}{}
	}

	out := make([]string, 0, len(outSet))
	for name := range outSet {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
