package colorutil

import (
	"math/rand/v2"
	"regexp"
	"testing"
)

func TestContrast(t *testing.T) {
	cases := map[string]string{
		"#ffffff": "black",
		"#000000": "white",
		"#ffff00": "black",
		"#0000ff": "white",
		"808080":  "black",
		"#7d7d7d": "white",
		"red":     "black",
		"":        "black",
		"#000":    "black",
		"#fff":    "black",
	}
	for in, want := range cases {
		if got := Contrast(in); got != want {
			t.Fatalf("Contrast(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestRandomColorFormat(t *testing.T) {
	re := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		if c := RandomColorFrom(r); !re.MatchString(c) {
			t.Fatalf("unexpected color %q", c)
		}
	}
	if c := RandomColor(); !re.MatchString(c) {
		t.Fatalf("unexpected color %q", c)
	}
}

func TestNormalize(t *testing.T) {
	got, ok := Normalize("FFAA00")
	if !ok || got != "#ffaa00" {
		t.Fatalf("Normalize = %q, %v", got, ok)
	}
	if _, ok := Normalize("blue"); ok {
		t.Fatalf("expected named color to be rejected")
	}
}
