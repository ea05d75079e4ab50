package tui

import (
	"os"
	"strconv"
	"strings"

	"annotate-cli/internal/colorutil"
	"annotate-cli/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// Faint styling is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted         lipgloss.TerminalColor = ac("240", "243")
	colorChromeMutedFg lipgloss.TerminalColor = ac("240", "245")

	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	colorControlBg lipgloss.TerminalColor = ac("252", "235")
	colorInputBg   lipgloss.TerminalColor = ac("254", "234")

	colorAccent   lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg lipgloss.TerminalColor = ac("255", "235")

	colorError lipgloss.TerminalColor = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

// topicStyle paints text on the topic color with a readable foreground.
// Topics without a usable color render unstyled.
func topicStyle(color string) lipgloss.Style {
	hex, ok := colorutil.Normalize(color)
	if !ok {
		return lipgloss.NewStyle()
	}
	fg := "#000000"
	if colorutil.Contrast(hex) == "white" {
		fg = "#ffffff"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(fg))
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which can disable colors in
// a TUI. Here we only honor NO_COLOR and otherwise follow the terminal's capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Topic colors are hex; trust TERM/COLORTERM when the detector under-reports.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) ANNOTATE_TUI_THEME=light|dark|auto
// 2) config tui.theme (light|dark)
// 3) ANNOTATE_TUI_DARKBG=true|false
// 4) COLORFGBG heuristic ("fg;bg")
func applyThemePreference(cfg *store.GlobalConfig) {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("ANNOTATE_TUI_THEME"))); v != "" && v != "auto" {
		if setDarkBackground(v) {
			return
		}
	}
	if setDarkBackground(cfg.Theme()) {
		return
	}

	if v := strings.TrimSpace(os.Getenv("ANNOTATE_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			lipgloss.SetHasDarkBackground(b)
			return
		}
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}

func setDarkBackground(theme string) bool {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return true
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return true
	default:
		return false
	}
}

// reportTheme picks the glamour style name for the report pane.
func reportTheme(cfg *store.GlobalConfig) string {
	if v := strings.TrimSpace(os.Getenv("ANNOTATE_TUI_THEME")); v != "" && v != "auto" {
		return v
	}
	return cfg.Theme()
}
