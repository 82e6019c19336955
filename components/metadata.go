package components

import (
	"fmt"
	"strings"
)

// Color is a 24-bit RGB colour.
type Color struct {
	R, G, B uint8
}

// Named colours used by scenarios and presentation.
var (
	White   = Color{255, 255, 255}
	Black   = Color{0, 0, 0}
	Red     = Color{255, 0, 0}
	Green   = Color{0, 255, 0}
	Blue    = Color{0, 0, 255}
	Yellow  = Color{255, 255, 0}
	Cyan    = Color{0, 255, 255}
	Magenta = Color{255, 0, 255}
	Gray    = Color{128, 128, 128}
)

var colorNames = map[string]Color{
	"white":   White,
	"black":   Black,
	"red":     Red,
	"green":   Green,
	"blue":    Blue,
	"yellow":  Yellow,
	"cyan":    Cyan,
	"magenta": Magenta,
	"gray":    Gray,
	"grey":    Gray,
}

// ParseColor resolves a colour name or a "#rrggbb" literal.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colorNames[s]; ok {
		return c, nil
	}
	if len(s) == 7 && s[0] == '#' {
		var c Color
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err == nil {
			return c, nil
		}
	}
	return Color{}, fmt.Errorf("unknown color %q", s)
}

// Renderable holds presentation attributes. The core never reads it.
type Renderable struct {
	Glyph  rune
	Fg, Bg Color
	Hidden bool
}

// DefaultRenderable returns a white '@' on black.
func DefaultRenderable() Renderable {
	return Renderable{Glyph: '@', Fg: White, Bg: Black}
}
