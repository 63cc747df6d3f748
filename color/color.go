// Package color implements the color value used by style expressions.
//
// A [Color] is stored in sRGB with each channel pre-multiplied by alpha,
// which is the representation a GPU blends with. Straight (un-premultiplied)
// RGB, CIE LAB, and HCL views are derived on first use and memoized, so a
// Color is immutable and safe to share once constructed.
//
// Colors are parsed from CSS color strings with [Parse] and blended in one
// of the interpolation spaces named by [Space] with [Interpolate].
package color

import (
	"strings"
	"sync"

	"github.com/ardnew/windstyle/pkg/num"
)

// Color is an RGBA color with channels in [0, 1], pre-multiplied by A.
type Color struct {
	R, G, B, A float64

	rgb func() [4]float64
	hcl func() [4]float64
	lab func() [4]float64
}

// Common colors.
//
//nolint:gochecknoglobals
var (
	Black       = New(0, 0, 0, 1)
	White       = New(1, 1, 1, 1)
	Transparent = New(0, 0, 0, 0)
	Red         = New(1, 0, 0, 1)
)

// New returns a color from channels already pre-multiplied by alpha.
func New(r, g, b, a float64) *Color {
	return build(r, g, b, a, true)
}

// FromStraight returns a color from un-premultiplied channels.
//
// When alpha is zero the straight channels are retained as-is so that the
// hue of a fully transparent color survives interpolation.
func FromStraight(r, g, b, a float64) *Color {
	return build(r, g, b, a, false)
}

func build(r, g, b, a float64, premultiplied bool) *Color {
	c := &Color{R: r, G: g, B: b, A: a}

	if !premultiplied {
		c.R, c.G, c.B = r*a, g*a, b*a

		if a == 0 {
			raw := [4]float64{r, g, b, 0}
			c.rgb = func() [4]float64 { return raw }
		}
	}

	if c.rgb == nil {
		c.rgb = sync.OnceValue(c.straight)
	}

	c.hcl = sync.OnceValue(func() [4]float64 { return rgbToHCL(c.rgb()) })
	c.lab = sync.OnceValue(func() [4]float64 { return rgbToLAB(c.rgb()) })

	return c
}

func (c *Color) straight() [4]float64 {
	f := c.A
	if f == 0 {
		return [4]float64{0, 0, 0, 0}
	}

	return [4]float64{c.R / f, c.G / f, c.B / f, c.A}
}

// RGB returns the un-premultiplied channels and alpha.
func (c *Color) RGB() [4]float64 { return c.rgb() }

// HCL returns hue (degrees, NaN when achromatic), chroma, lightness, and
// alpha.
func (c *Color) HCL() [4]float64 { return c.hcl() }

// LAB returns CIE L*a*b* coordinates (D50) and alpha.
func (c *Color) LAB() [4]float64 { return c.lab() }

// String renders the color in CSS rgba() notation with integer channels.
func (c *Color) String() string {
	rgb := c.rgb()

	var sb strings.Builder
	sb.WriteString("rgba(")

	for _, v := range rgb[:3] {
		sb.WriteString(num.Format(num.Round(v * 255)))
		sb.WriteByte(',')
	}

	sb.WriteString(num.Format(rgb[3]))
	sb.WriteByte(')')

	return sb.String()
}

// Bytes returns the pre-multiplied channels scaled to 0-255, as uploaded to a
// lookup texture.
func (c *Color) Bytes() [4]uint8 {
	return [4]uint8{
		uint8(num.Clamp(c.R, 0, 1) * 255),
		uint8(num.Clamp(c.G, 0, 1) * 255),
		uint8(num.Clamp(c.B, 0, 1) * 255),
		uint8(num.Clamp(c.A, 0, 1) * 255),
	}
}

// ValidateRGBA checks channels given in 0-255 (and alpha in 0-1), returning a
// description of the first violation or "" if the values are acceptable.
func ValidateRGBA(r, g, b any, a ...any) string {
	channels := []any{r, g, b}
	if len(a) > 0 {
		if _, ok := a[0].(float64); ok {
			channels = append(channels, a[0])
		}
	}

	inRange := func(v any, hi float64) bool {
		f, ok := v.(float64)

		return ok && f >= 0 && f <= hi
	}

	if !inRange(r, 255) || !inRange(g, 255) || !inRange(b, 255) {
		return "Invalid rgba value [" + join(channels) +
			"]: 'r', 'g', and 'b' must be between 0 and 255."
	}

	if len(a) > 0 && !inRange(a[0], 1) {
		return "Invalid rgba value [" + join(append([]any{r, g, b}, a[0])) +
			"]: 'a' must be between 0 and 1."
	}

	return ""
}

func join(vs []any) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		switch v := v.(type) {
		case float64:
			parts[i] = num.Format(v)
		case string:
			parts[i] = v
		case bool:
			if v {
				parts[i] = "true"
			} else {
				parts[i] = "false"
			}
		case nil:
		default:
			parts[i] = "?"
		}
	}

	return strings.Join(parts, ", ")
}
