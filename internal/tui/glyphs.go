package tui

import (
	"os"
	"strings"
	"sync"

	"annotate-cli/internal/store"
)

// Terminals can't change the user's font, but we can pick between Unicode and ASCII
// glyphs for markers and separators.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference reads ANNOTATE_TUI_GLYPHS, then the config. Unknown values are ignored.
func applyGlyphPreference(cfg *store.GlobalConfig) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ANNOTATE_TUI_GLYPHS")))
	if v == "" {
		v = cfg.GlyphSet()
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

func glyphArrow() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphSwatch() string {
	if glyphs() == glyphSetASCII {
		return "#"
	}
	return "■"
}

func glyphChecked(on bool) string {
	if glyphs() == glyphSetASCII {
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	if on {
		return "◉"
	}
	return "○"
}
