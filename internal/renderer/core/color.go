package core

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA color. The zero value is fully transparent black.
type Color struct {
	R, G, B, A uint8

	// Default indicates the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack = Opaque(0, 0, 0)
	ColorWhite = Opaque(255, 255, 255)
	ColorRed   = Opaque(255, 0, 0)
	ColorGray  = Opaque(128, 128, 128)
)

// Opaque creates a fully opaque color.
func Opaque(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// ColorFromRGB creates an opaque color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Opaque(r, g, b)
}

// ColorFromHex parses "#rgb" or "#rrggbb".
func ColorFromHex(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Opaque(r, g, b), nil
}

// MustHex is ColorFromHex for constants. It panics on malformed input.
func MustHex(hex string) Color {
	c, err := ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// WithAlpha returns the color with alpha a.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default || other.Default {
		return c.Default == other.Default
	}
	return c == other
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Colorful converts to a go-colorful color, dropping alpha.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// Mix interpolates each RGBA channel between c and other:
// weight 1 yields c and weight 0 yields other. The weight is clamped to
// [0, 1] and NaN counts as 0.
func (c Color) Mix(other Color, weight float64) Color {
	if math.IsNaN(weight) {
		weight = 0
	}
	weight = math.Max(0, math.Min(1, weight))
	ch := func(a, b uint8) uint8 {
		v := weight*float64(a) + (1-weight)*float64(b)
		return uint8(math.Round(math.Max(0, math.Min(255, v))))
	}
	return Color{
		R: ch(c.R, other.R),
		G: ch(c.G, other.G),
		B: ch(c.B, other.B),
		A: ch(c.A, other.A),
	}
}

// Over composites c onto an opaque backdrop and returns an opaque color.
// Terminals cannot draw translucent cells, so alpha is resolved here.
func (c Color) Over(backdrop Color) Color {
	if c.Default {
		return backdrop
	}
	a := float64(c.A) / 255
	ch := func(fg, bg uint8) uint8 {
		return uint8(math.Round(a*float64(fg) + (1-a)*float64(bg)))
	}
	return Opaque(ch(c.R, backdrop.R), ch(c.G, backdrop.G), ch(c.B, backdrop.B))
}

// Lighter scales the HSV value by factor/100. When the value would
// exceed the maximum the excess is taken from the saturation instead.
func (c Color) Lighter(factor int) Color {
	if c.Default || factor <= 0 {
		return c
	}
	h, s, v := c.Colorful().Hsv()
	v = v * float64(factor) / 100
	if v > 1 {
		s = math.Max(0, s-(v-1))
		v = 1
	}
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: c.A}
}
