package expression

import (
	"testing"
)

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	digits := func(f float64) *float64 { return &f }

	tests := []struct {
		name     string
		n        float64
		locale   string
		min, max *float64
		want     string
	}{
		{name: "integer", n: 42, want: "42"},
		{name: "default fraction digits", n: 1.23456, want: "1.235"},
		{name: "grouping", n: 1234567.5, locale: "en-US", want: "1,234,567.5"},
		{name: "negative", n: -1.5, want: "-1.5"},
		{name: "minimum digits", n: 5, min: digits(2), want: "5.00"},
		{name: "maximum digits", n: 3.14159, max: digits(2), want: "3.14"},
		{name: "half away from zero", n: 0.0625, max: digits(2), want: "0.07"},
		{name: "zero digits", n: 2.5, max: digits(0), want: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FormatNumber(tt.n, tt.locale, "", tt.min, tt.max)
			if err != nil {
				t.Fatalf("FormatNumber() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("FormatNumber(%v) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestFormatNumberErrors(t *testing.T) {
	t.Parallel()

	digits := func(f float64) *float64 { return &f }

	tests := []struct {
		name     string
		locale   string
		currency string
		min, max *float64
		want     string
	}{
		{name: "locale", locale: "not a locale!", want: "Incorrect locale information provided"},
		{name: "currency", currency: "XX", want: "Invalid currency code : XX"},
		{name: "negative minimum", min: digits(-1), want: "minimumFractionDigits value is out of range."},
		{name: "maximum below minimum", min: digits(4), max: digits(2), want: "maximumFractionDigits value is out of range."},
		{name: "maximum too large", max: digits(101), want: "maximumFractionDigits value is out of range."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := FormatNumber(1, tt.locale, tt.currency, tt.min, tt.max)
			if err == nil || err.Error() != tt.want {
				t.Errorf("FormatNumber() error = %v, want %q", err, tt.want)
			}
		})
	}
}
