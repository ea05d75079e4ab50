package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and at most
// height lines tall, padding short panes when height > 0.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			ln = truncate(ln, width)
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to width columns, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	switch {
	case width <= 0:
		return ""
	case xansi.StringWidth(s) <= width:
		return s
	case width == 1:
		return xansi.Cut(s, 0, 1)
	default:
		return xansi.Cut(s, 0, width-1) + "…"
	}
}
