// Package gradient interpolates between two colours and renders the result
// for terminals and CSS-style consumers.
package gradient

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Alpha range of an interpolated colour. A point of 0 never renders fully
// transparent.
const (
	MinAlpha  = 0.7
	AlphaSpan = 0.3
)

// RGB is an opaque colour with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// RGBA is an interpolated colour. A is in [MinAlpha, 1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// ParseHex parses "#rrggbb" (or "#rgb") into an RGB.
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// MustHex is ParseHex for compile-time constants.
func MustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex renders the colour as "#rrggbb".
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Clamp limits point to [0, 1]. NaN maps to 0.
func Clamp(point float64) float64 {
	switch {
	case math.IsNaN(point), point < 0:
		return 0
	case point > 1:
		return 1
	default:
		return point
	}
}

// Interpolate blends base towards accent by point. Each channel is linearly
// interpolated and rounded; alpha grows from MinAlpha at point 0 to 1 at
// point 1. point is clamped to [0, 1].
func Interpolate(base, accent RGB, point float64) RGBA {
	p := Clamp(point)
	return RGBA{
		R: channel(base.R, accent.R, p),
		G: channel(base.G, accent.G, p),
		B: channel(base.B, accent.B, p),
		A: MinAlpha + p*AlphaSpan,
	}
}

func channel(from, to uint8, p float64) uint8 {
	v := math.Round(float64(from) + (float64(to)-float64(from))*p)
	return uint8(math.Max(0, math.Min(255, v)))
}

// RGB drops the alpha channel.
func (c RGBA) RGB() RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// CSS renders the colour as "rgb(r, g, b, a)".
func (c RGBA) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d, %g)", c.R, c.G, c.B, c.A)
}

// Over composites the colour onto an opaque background. Terminals have no
// alpha channel, so this is what gets painted.
func (c RGBA) Over(background RGB) RGB {
	blended := background.colorful().BlendRgb(c.RGB().colorful(), Clamp(c.A))
	r, g, b := blended.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}
