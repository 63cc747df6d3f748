package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ardnew/windstyle/pkg/num"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// sRGB (D65) to XYZ, Bradford-adapted to the D50 white point.
//
//nolint:gochecknoglobals
var (
	toXYZ = [3][3]float64{
		{0.4360747, 0.3850649, 0.1430804},
		{0.2225045, 0.7168786, 0.0606169},
		{0.0139322, 0.0971045, 0.7141733},
	}
	fromXYZ = [3][3]float64{
		{3.1338561, -1.6168667, -0.4906146},
		{-0.9787684, 1.9161415, 0.0334540},
		{0.0719453, -0.2289914, 1.4052427},
	}
)

func mul(m [3][3]float64, x, y, z float64) (float64, float64, float64) {
	return m[0][0]*x + m[0][1]*y + m[0][2]*z,
		m[1][0]*x + m[1][1]*y + m[1][2]*z,
		m[2][0]*x + m[2][1]*y + m[2][2]*z
}

// rgbToLAB converts straight sRGB (plus alpha) to CIE LAB with L in 0-100.
func rgbToLAB(rgba [4]float64) [4]float64 {
	r, g, b := colorful.Color{R: rgba[0], G: rgba[1], B: rgba[2]}.LinearRgb()
	x, y, z := mul(toXYZ, r, g, b)

	// Neutral grays map exactly onto the white point's axis.
	if r == g && g == b {
		x, z = y*colorful.D50[0], y*colorful.D50[2]
	}

	l, a, bb := colorful.XyzToLabWhiteRef(x, y, z, colorful.D50)

	return [4]float64{math.Max(0, l*100), a * 100, bb * 100, rgba[3]}
}

// labToRGB converts CIE LAB to straight sRGB, clamped to the unit cube.
// A NaN a or b component is treated as zero.
func labToRGB(lab [4]float64) [4]float64 {
	a, b := lab[1], lab[2]
	if math.IsNaN(a) {
		a = 0
	}

	if math.IsNaN(b) {
		b = 0
	}

	x, y, z := colorful.LabToXyzWhiteRef(lab[0]/100, a/100, b/100, colorful.D50)
	lr, lg, lb := mul(fromXYZ, x, y, z)
	c := colorful.LinearRgb(lr, lg, lb)

	return [4]float64{
		num.Clamp(c.R, 0, 1),
		num.Clamp(c.G, 0, 1),
		num.Clamp(c.B, 0, 1),
		lab[3],
	}
}

// rgbToHCL returns [hue, chroma, lightness, alpha]. Hue is NaN when the
// chroma rounds to zero at four decimal places.
func rgbToHCL(rgba [4]float64) [4]float64 {
	lab := rgbToLAB(rgba)
	c := math.Hypot(lab[1], lab[2])

	h := math.NaN()
	if math.Floor(c*10000+0.5) != 0 {
		h = constrainAngle(math.Atan2(lab[2], lab[1]) * rad2deg)
	}

	return [4]float64{h, c, lab[0], lab[3]}
}

func hclToRGB(hcl [4]float64) [4]float64 {
	h, c := hcl[0], hcl[1]
	if math.IsNaN(h) {
		h = 0
	}

	h *= deg2rad

	return labToRGB([4]float64{hcl[2], math.Cos(h) * c, math.Sin(h) * c, hcl[3]})
}

func constrainAngle(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360)+360, 360)
}

// hslToRGB converts hue in degrees and saturation/lightness in 0-100.
func hslToRGB(h, s, l, alpha float64) [4]float64 {
	c := colorful.Hsl(constrainAngle(h), s/100, l/100)

	return [4]float64{c.R, c.G, c.B, alpha}
}
