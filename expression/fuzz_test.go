package expression

import (
	"testing"
	"unicode/utf8"
)

// FuzzCreateExpression parses and evaluates arbitrary documents.
func FuzzCreateExpression(f *testing.F) {
	f.Add(`["get", "speed"]`)
	f.Add(`["interpolate", ["linear"], ["zoom"], 0, "red", 10, "blue"]`)
	f.Add(`["step", ["get", "x"], 0, 1, 1, 2, 2]`)
	f.Add(`["match", ["get", "k"], ["a", "b"], 1, 2, 2, 0]`)
	f.Add(`["let", "a", 1, ["+", ["var", "a"], ["zoom"]]]`)
	f.Add(`["case", ["has", "x"], ["at", 0, ["literal", [1]]], 0]`)
	f.Add(`["number-format", 1234.5, {"locale": "de", "max-fraction-digits": 1}]`)
	f.Add(`["slice", "héllo", -3]`)
	f.Add(`["coalesce", ["image", "a"], ["to-color", "nope", "white"]]`)
	f.Add(`{"stops": [[0, 1]]}`)
	f.Add(`[]`)

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("panicked on input %q: %v", input, r)
			}
		}()

		raw, err := Decode([]byte(input))
		if err != nil {
			return
		}

		se, errs := CreateExpression(raw, nil, quiet())
		if errs != nil {
			// Every failed parse reports at least one error.
			if len(errs) == 0 {
				t.Error("parse failed without errors")
			}

			return
		}

		if se.Expression() == nil {
			t.Fatal("successful parse returned a nil expression")
		}

		_, _ = se.EvaluateWithoutErrorHandling(EvaluationContext{
			Globals: &Globals{Zoom: 3},
			Feature: &Feature{Properties: map[string]any{"x": 1.0, "k": "a"}},
		})
	})
}

// FuzzFormatNumber checks that formatting never fails for valid options.
func FuzzFormatNumber(f *testing.F) {
	f.Add(0.0, "en", 2)
	f.Add(-1234.5678, "de", 0)
	f.Add(1e21, "fr", 3)

	f.Fuzz(func(t *testing.T, n float64, locale string, digits int) {
		if digits < 0 || digits > 20 {
			t.Skip("digits out of range")
		}

		d := float64(digits)

		if _, err := FormatNumber(n, "en", "", &d, &d); err != nil {
			t.Errorf("FormatNumber(%v, %d digits) error = %v", n, digits, err)
		}

		// Unknown locales are reported, never panicked on.
		_, _ = FormatNumber(n, locale, "", nil, nil)
	})
}
