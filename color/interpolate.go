package color

import (
	"math"

	"github.com/ardnew/windstyle/pkg/num"
)

// Space identifies a color space used for interpolation.
type Space string

// Supported interpolation spaces.
const (
	SpaceRGB Space = "rgb"
	SpaceHCL Space = "hcl"
	SpaceLAB Space = "lab"
)

// Valid reports whether s names a supported interpolation space.
func (s Space) Valid() bool {
	switch s {
	case SpaceRGB, SpaceHCL, SpaceLAB:
		return true
	}

	return false
}

// Interpolate blends from and to at t in the given space. An empty space
// means [SpaceRGB].
//
// In HCL, hue takes the shorter way around the circle. If only one endpoint
// has a defined hue (the other is achromatic), that hue is held constant,
// and when the achromatic endpoint is pure black or white its chroma is
// taken from the chromatic endpoint as well.
func Interpolate(from, to *Color, t float64, space Space) *Color {
	switch space {
	case SpaceHCL:
		return interpolateHCL(from.HCL(), to.HCL(), t)
	case SpaceLAB:
		lab := num.LerpSlice(sl(from.LAB()), sl(to.LAB()), t)
		rgb := labToRGB([4]float64(lab))

		return FromStraight(rgb[0], rgb[1], rgb[2], rgb[3])
	default:
		rgb := num.LerpSlice(sl(from.RGB()), sl(to.RGB()), t)

		return FromStraight(rgb[0], rgb[1], rgb[2], rgb[3])
	}
}

func sl(a [4]float64) []float64 { return a[:] }

func interpolateHCL(from, to [4]float64, t float64) *Color {
	h0, c0, l0, a0 := from[0], from[1], from[2], from[3]
	h1, c1, l1, a1 := to[0], to[1], to[2], to[3]

	var hue float64

	chroma := math.NaN()

	switch {
	case !math.IsNaN(h0) && !math.IsNaN(h1):
		dh := h1 - h0
		if h1 > h0 && dh > 180 {
			dh -= 360
		} else if h1 < h0 && h0-h1 > 180 {
			dh += 360
		}

		hue = h0 + t*dh
	case !math.IsNaN(h0):
		hue = h0
		if l1 == 1 || l1 == 0 {
			chroma = c0
		}
	case !math.IsNaN(h1):
		hue = h1
		if l0 == 1 || l0 == 0 {
			chroma = c1
		}
	default:
		hue = math.NaN()
	}

	if math.IsNaN(chroma) {
		chroma = num.Lerp(c0, c1, t)
	}

	rgb := hclToRGB([4]float64{hue, chroma, num.Lerp(l0, l1, t), num.Lerp(a0, a1, t)})

	return FromStraight(rgb[0], rgb[1], rgb[2], rgb[3])
}
