package color

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/ardnew/windstyle/pkg/num"
)

//nolint:gochecknoglobals
var (
	hexPattern = regexp.MustCompile(
		`^#(?:[0-9a-f]{3,4}|[0-9a-f]{6}|[0-9a-f]{8})$`)
	rgbPattern = regexp.MustCompile(
		`^rgba?\(\s*([\de.+-]+)(%)?(?:\s+|\s*(,)\s*)([\de.+-]+)(%)?` +
			`(?:\s+|\s*(,)\s*)([\de.+-]+)(%)?(?:\s*([,/])\s*([\de.+-]+)(%)?)?\s*\)$`)
	hslPattern = regexp.MustCompile(
		`^hsla?\(\s*([\de.+-]+)(?:deg)?(?:\s+|\s*(,)\s*)([\de.+-]+)%` +
			`(?:\s+|\s*(,)\s*)([\de.+-]+)%(?:\s*([,/])\s*([\de.+-]+)(%)?)?\s*\)$`)

	// CSS Color Level 4 names missing from the SVG 1.1 table.
	extraNames = map[string][3]uint8{
		"rebeccapurple": {102, 51, 153},
	}
)

// Parse converts a CSS color string to a Color.
//
// Accepted forms are "transparent", named colors, #rgb, #rgba, #rrggbb,
// #rrggbbaa, and the rgb()/rgba()/hsl()/hsla() functions in both the legacy
// comma-separated and the modern space-separated syntax. Parsing is
// case-insensitive and ignores surrounding whitespace. The second result is
// false if s is not a recognized color.
func Parse(s string) (*Color, bool) {
	rgba, ok := parseCSS(s)
	if !ok {
		return nil, false
	}

	return FromStraight(rgba[0], rgba[1], rgba[2], rgba[3]), true
}

// MustParse is like [Parse] but panics if s is not a color.
func MustParse(s string) *Color {
	c, ok := Parse(s)
	if !ok {
		panic("color: invalid color " + strconv.Quote(s))
	}

	return c
}

func parseCSS(s string) ([4]float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))

	if s == "transparent" {
		return [4]float64{}, true
	}

	if c, ok := colornames.Map[s]; ok {
		return [4]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, 1}, true
	}

	if c, ok := extraNames[s]; ok {
		return [4]float64{float64(c[0]) / 255, float64(c[1]) / 255, float64(c[2]) / 255, 1}, true
	}

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseRGB(s)
	}

	return parseHSL(s)
}

func parseHex(s string) ([4]float64, bool) {
	if !hexPattern.MatchString(s) {
		return [4]float64{}, false
	}

	width := 2
	if len(s) < 6 {
		width = 1
	}

	digits := s[1:]
	out := [4]float64{0, 0, 0, 1}

	for i := range 4 {
		lo := i * width
		if lo >= len(digits) {
			break
		}

		part := digits[lo : lo+width]
		if width == 1 {
			part += part
		}

		v, _ := strconv.ParseUint(part, 16, 8)
		out[i] = float64(v) / 255
	}

	return out, true
}

// validFormat reports whether the separators between arguments are
// consistent: all whitespace (optionally "/ alpha") or all commas.
func validFormat(f1, f2, f3 string) bool {
	if f1 == "" {
		f1 = " "
	}

	if f2 == "" {
		f2 = " "
	}

	switch f1 + f2 + f3 {
	case "  ", "  /", ",,", ",,,":
		return true
	}

	return false
}

func parseRGB(s string) ([4]float64, bool) {
	m := rgbPattern.FindStringSubmatch(s)
	if m == nil || !validFormat(m[3], m[6], m[9]) {
		return [4]float64{}, false
	}

	var limit float64

	switch m[2] + m[5] + m[8] {
	case "%%%":
		limit = 100
	case "":
		limit = 255
	default:
		return [4]float64{}, false
	}

	rgba := [4]float64{
		num.Clamp(parseNumber(m[1])/limit, 0, 1),
		num.Clamp(parseNumber(m[4])/limit, 0, 1),
		num.Clamp(parseNumber(m[7])/limit, 0, 1),
		1,
	}

	if m[10] != "" {
		rgba[3] = parseAlpha(parseNumber(m[10]), m[11] != "")
	}

	return rgba, validNumbers(rgba[:])
}

func parseHSL(s string) ([4]float64, bool) {
	m := hslPattern.FindStringSubmatch(s)
	if m == nil || !validFormat(m[2], m[4], m[6]) {
		return [4]float64{}, false
	}

	hsla := [4]float64{
		parseNumber(m[1]),
		num.Clamp(parseNumber(m[3]), 0, 100),
		num.Clamp(parseNumber(m[5]), 0, 100),
		1,
	}

	if m[7] != "" {
		hsla[3] = parseAlpha(parseNumber(m[7]), m[8] != "")
	}

	if !validNumbers(hsla[:]) {
		return [4]float64{}, false
	}

	return hslToRGB(hsla[0], hsla[1], hsla[2], hsla[3]), true
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}

	return f
}

func parseAlpha(a float64, percent bool) float64 {
	if percent {
		a /= 100
	}

	return num.Clamp(a, 0, 1)
}

func validNumbers(vs []float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return false
		}
	}

	return true
}
