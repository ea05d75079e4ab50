package colorutil

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RandomColor returns a uniformly random #rrggbb color.
func RandomColor() string {
	return fromInt(rand.IntN(0xffffff))
}

// RandomColorFrom is RandomColor with an explicit source (used by tests).
func RandomColorFrom(r *rand.Rand) string {
	return fromInt(r.IntN(0xffffff))
}

func fromInt(n int) string {
	return fmt.Sprintf("#%06x", n)
}

// Contrast returns "black" or "white", whichever reads better on the given background.
// Only the six-digit #rrggbb form is read; anything else, #rgb included, gets "black".
func Contrast(color string) string {
	if len(strings.TrimPrefix(strings.TrimSpace(color), "#")) != 6 {
		return "black"
	}
	c, ok := Parse(color)
	if !ok {
		return "black"
	}
	r, g, b := c.RGB255()
	brightness := math.Round((float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000)
	if brightness > 125 {
		return "black"
	}
	return "white"
}

// Parse reads #rrggbb / #rgb colors, with or without the leading '#'.
func Parse(color string) (colorful.Color, bool) {
	s := strings.TrimSpace(color)
	if s == "" {
		return colorful.Color{}, false
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// Normalize returns the canonical lowercase #rrggbb form of a hex color.
func Normalize(color string) (string, bool) {
	c, ok := Parse(color)
	if !ok {
		return "", false
	}
	return c.Hex(), true
}
