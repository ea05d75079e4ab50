package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"annotate-cli/internal/model"
)

type WriteOptions struct {
	Options
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteCollection writes {dir}/{name}_report.md.
func WriteCollection(c model.Collection, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	md := RenderCollectionMarkdown(c, opt.Options)
	path := filepath.Join(toDir, c.Name+"_report.md")
	if err := writeFile(path, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{path}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
