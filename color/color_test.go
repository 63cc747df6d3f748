package color

import (
	"math"
	"testing"
)

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want [4]float64 // straight rgba
		ok   bool
	}{
		{"transparent", [4]float64{0, 0, 0, 0}, true},
		{"  RED ", [4]float64{1, 0, 0, 1}, true},
		{"rebeccapurple", [4]float64{102.0 / 255, 51.0 / 255, 153.0 / 255, 1}, true},
		{"#f00", [4]float64{1, 0, 0, 1}, true},
		{"#f008", [4]float64{1, 0, 0, 136.0 / 255}, true},
		{"#00ff00", [4]float64{0, 1, 0, 1}, true},
		{"#0000ff80", [4]float64{0, 0, 1, 128.0 / 255}, true},
		{"rgb(255, 0, 0)", [4]float64{1, 0, 0, 1}, true},
		{"rgba(0,0,255,0.5)", [4]float64{0, 0, 1, 0.5}, true},
		{"rgb(100% 0% 100% / 60%)", [4]float64{1, 0, 1, 0.6}, true},
		{"rgb(300 0 0)", [4]float64{1, 0, 0, 1}, true},
		{"hsl(120, 100%, 50%)", [4]float64{0, 1, 0, 1}, true},
		{"hsla(240deg 100% 50% / .25)", [4]float64{0, 0, 1, 0.25}, true},
		{"#ff", [4]float64{}, false},
		{"rgb(255, 0 0)", [4]float64{}, false},
		{"rgb(100%, 0, 0)", [4]float64{}, false},
		{"rgb(1e, 0, 0)", [4]float64{}, false},
		{"hsl(120, 100, 50)", [4]float64{}, false},
		{"nope", [4]float64{}, false},
		{"", [4]float64{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			c, ok := Parse(tt.in)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}

			if !ok {
				return
			}

			got := c.RGB()
			for i := range got {
				if !near(got[i], tt.want[i], 1e-9) {
					t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)

					break
				}
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"#3288bd", "#66c2a5", "rgba(12, 200, 33, 0.4)", "hsl(33 80% 40%)", "white",
	} {
		c := MustParse(in)

		back, ok := Parse(c.String())
		if !ok {
			t.Fatalf("Parse(%q) failed", c.String())
		}

		a, b := c.RGB(), back.RGB()
		for i := range a {
			if !near(a[i], b[i], 1.0/255) {
				t.Errorf("%s: channel %d: %v != %v", in, i, a[i], b[i])
			}
		}
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	if got := MustParse("rgba(255, 128, 0, 0.5)").String(); got != "rgba(255,128,0,0.5)" {
		t.Errorf("String() = %q", got)
	}

	if got := Transparent.String(); got != "rgba(0,0,0,0)" {
		t.Errorf("String() = %q", got)
	}
}

func TestPremultiplied(t *testing.T) {
	t.Parallel()

	c := FromStraight(1, 0.5, 0, 0.5)
	if c.R != 0.5 || c.G != 0.25 || c.A != 0.5 {
		t.Errorf("premultiplied channels = %v %v %v %v", c.R, c.G, c.B, c.A)
	}

	zero := FromStraight(1, 0.5, 0, 0)
	if rgb := zero.RGB(); rgb != [4]float64{1, 0.5, 0, 0} {
		t.Errorf("zero-alpha RGB = %v", rgb)
	}

	if b := New(1, 0.5, 0, 1).Bytes(); b != [4]uint8{255, 127, 0, 255} {
		t.Errorf("Bytes() = %v", b)
	}
}

func TestLABRoundTrip(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"red", "#123456", "gray", "white", "black", "#abcdef"} {
		rgb := MustParse(in).RGB()

		got := labToRGB(rgbToLAB(rgb))
		for i := range 3 {
			if !near(got[i], rgb[i], 1e-4) {
				t.Errorf("%s: LAB round trip channel %d = %v, want %v", in, i, got[i], rgb[i])
			}
		}
	}

	white := rgbToLAB([4]float64{1, 1, 1, 1})
	if !near(white[0], 100, 1e-3) || !near(white[1], 0, 1e-3) || !near(white[2], 0, 1e-3) {
		t.Errorf("white LAB = %v", white)
	}
}

func TestAchromaticHue(t *testing.T) {
	t.Parallel()

	if h := MustParse("gray").HCL()[0]; !math.IsNaN(h) {
		t.Errorf("gray hue = %v, want NaN", h)
	}

	if h := MustParse("red").HCL()[0]; math.IsNaN(h) {
		t.Error("red hue is NaN")
	}
}

func TestInterpolate(t *testing.T) {
	t.Parallel()

	t.Run("rgb", func(t *testing.T) {
		t.Parallel()

		got := Interpolate(Black, White, 0.5, "").RGB()
		for i := range 3 {
			if !near(got[i], 0.5, 1e-9) {
				t.Fatalf("midpoint = %v", got)
			}
		}
	})

	t.Run("hcl shortest hue", func(t *testing.T) {
		t.Parallel()

		rgbA := hclToRGB([4]float64{350, 40, 60, 1})
		rgbB := hclToRGB([4]float64{10, 40, 60, 1})
		a := FromStraight(rgbA[0], rgbA[1], rgbA[2], 1)
		b := FromStraight(rgbB[0], rgbB[1], rgbB[2], 1)

		h := Interpolate(a, b, 0.5, SpaceHCL).HCL()[0]
		if h > 20 && h < 340 {
			t.Errorf("hue = %v, want near 0/360", h)
		}
	})

	t.Run("hcl achromatic endpoint", func(t *testing.T) {
		t.Parallel()

		red := MustParse("red")
		got := Interpolate(red, MustParse("gray"), 0.5, SpaceHCL).HCL()
		if !near(got[0], red.HCL()[0], 1) {
			t.Errorf("hue = %v, want %v", got[0], red.HCL()[0])
		}
	})

	t.Run("lab endpoints", func(t *testing.T) {
		t.Parallel()

		red := MustParse("red")
		blue := MustParse("blue")

		for _, tt := range []struct {
			t    float64
			want *Color
		}{{0, red}, {1, blue}} {
			got := Interpolate(red, blue, tt.t, SpaceLAB).RGB()
			want := tt.want.RGB()

			for i := range 3 {
				if !near(got[i], want[i], 1e-3) {
					t.Errorf("t=%v: %v, want %v", tt.t, got, want)

					break
				}
			}
		}
	})
}

func TestValidateRGBA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []any
		want string
	}{
		{[]any{255.0, 0.0, 0.0}, ""},
		{[]any{255.0, 0.0, 0.0, 0.5}, ""},
		{
			[]any{256.0, 0.0, 0.0},
			"Invalid rgba value [256, 0, 0]: 'r', 'g', and 'b' must be between 0 and 255.",
		},
		{
			[]any{1.0, 2.0, 3.0, 2.0},
			"Invalid rgba value [1, 2, 3, 2]: 'a' must be between 0 and 1.",
		},
		{
			[]any{"x", 0.0, 0.0},
			"Invalid rgba value [x, 0, 0]: 'r', 'g', and 'b' must be between 0 and 255.",
		},
	}

	for _, tt := range tests {
		if got := ValidateRGBA(tt.args[0], tt.args[1], tt.args[2], tt.args[3:]...); got != tt.want {
			t.Errorf("ValidateRGBA(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"red", "#fff", "rgb(1,2,3)", "hsla(1 2% 3% / 4%)", "rgb(1e2 2 3)",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		c, ok := Parse(s)
		if !ok {
			return
		}

		for _, v := range c.RGB() {
			if math.IsNaN(v) || v < 0 || v > 1 {
				t.Fatalf("Parse(%q) produced channel %v", s, v)
			}
		}
	})
}
