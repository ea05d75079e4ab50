package cli

import (
	"fmt"
	"os"

	"annotate-cli/internal/report"
	"annotate-cli/internal/store"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

// renderMarkdown prints md styled for the terminal using the configured theme.
// A non-positive width means the terminal width (80 when stdout is not a terminal).
func renderMarkdown(cmd *cobra.Command, md string, width int) error {
	cfg, _ := store.LoadConfig()
	theme := cfg.Theme()
	if width <= 0 {
		width = 80
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
			width = w
		}
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), report.Render(md, report.Style(theme), width))
	return err
}
