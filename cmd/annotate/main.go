package main

import (
	"os"
	"path/filepath"
	"strings"

	"annotate-cli/internal/cli"
)

const dataSuffix = "_data.json"

// isDataExport reports whether s names a combined export ({name}_data.json).
func isDataExport(s string) bool {
	base := filepath.Base(strings.TrimSpace(s))
	return strings.HasSuffix(base, dataSuffix) && len(base) > len(dataSuffix)
}

func rewriteDirectImportArgs(argv []string) []string {
	// Convenience: `annotate news_data.json` works like
	// `annotate collections import-combined news_data.json --name news`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first, so find the first positional token.
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value.
	valueFlags := map[string]bool{
		"--dir":       true,
		"--workspace": true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(i int) []string {
		path := strings.TrimSpace(argv[i])
		name := strings.TrimSuffix(filepath.Base(path), dataSuffix)
		out := make([]string, 0, len(argv)+4)
		out = append(out, argv[:i]...)
		out = append(out, "collections", "import-combined", path, "--name", name)
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isDataExport(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}
		if isDataExport(a) {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectImportArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
