package report

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	rendererMu sync.Mutex
	// Keyed by style + wrap width. WithAutoStyle can block on terminal queries, so the
	// style is always resolved up front.
	renderers = map[string]*glamour.TermRenderer{}
)

// Style resolves a theme preference ("dark", "light", "notty", "ascii", "auto" or empty) to a
// glamour standard style name.
func Style(theme string) string {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case styles.LightStyle:
		return styles.LightStyle
	case styles.DarkStyle:
		return styles.DarkStyle
	case styles.NoTTYStyle, "plain":
		return styles.NoTTYStyle
	case styles.AsciiStyle:
		return styles.AsciiStyle
	}
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

// Render formats markdown for a terminal. On renderer errors the raw markdown is returned.
func Render(md string, style string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	key := style + ":" + strconv.Itoa(width)

	rendererMu.Lock()
	r := renderers[key]
	rendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		rendererMu.Lock()
		if existing := renderers[key]; existing != nil {
			r = existing
		} else {
			renderers[key] = rr
			r = rr
		}
		rendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
