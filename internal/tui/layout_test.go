package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestNormalizePane_PadsAndCuts(t *testing.T) {
	out := normalizePane("short\nthis line is much too long", 10, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines; got %d", len(lines))
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 10 {
			t.Fatalf("line %d: expected width 10; got %d (%q)", i, w, ln)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected ellipsis on cut line; got %q", lines[1])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abc", 5); got != "abc" {
		t.Fatalf("expected untouched; got %q", got)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("expected abc…; got %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("expected empty; got %q", got)
	}
}
