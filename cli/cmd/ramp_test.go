package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/windstyle/ramp"
)

var red = []byte{255, 0, 0, 255}

func TestRampRGBA(t *testing.T) {
	t.Parallel()

	ctx, out := testContext(t, nil)

	r := Ramp{
		Target:     target{Spec: "particle-color"},
		Expression: `"red"`,
		Output:     "rgba",
	}

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Ramp.Run() error = %v", err)
	}

	if want := bytes.Repeat(red, ramp.Samples); !bytes.Equal(out.Bytes(), want) {
		t.Errorf("Ramp.Run() wrote %d bytes, want %d bytes of opaque red", out.Len(), len(want))
	}
}

func TestRampPNGFile(t *testing.T) {
	t.Parallel()

	ctx, out := testContext(t, nil)
	file := filepath.Join(t.TempDir(), "ramp.png")

	r := Ramp{
		Target:     target{Spec: "particle-color"},
		Expression: `["interpolate", ["linear"], ["get", "speed"], 0, "red", 10, "blue"]`,
		UMax:       6,
		VMax:       8,
		Output:     "png",
		File:       file,
	}

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Ramp.Run() error = %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("Ramp.Run() wrote %q to stdout, want nothing", out.String())
	}

	f, err := os.Open(file)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}

	if b := img.Bounds(); b.Dx() != ramp.Width || b.Dy() != ramp.Height {
		t.Fatalf("image bounds = %v, want %dx%d", b, ramp.Width, ramp.Height)
	}

	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, color.NRGBA{255, 0, 0, 255}},
		{ramp.Width - 1, ramp.Height - 1, color.NRGBA{0, 0, 255, 255}},
	}

	for _, tt := range tests {
		got := color.NRGBAModel.Convert(img.At(tt.x, tt.y)).(color.NRGBA)
		if got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRampJSON(t *testing.T) {
	t.Parallel()

	ctx, out := testContext(t, nil)

	r := Ramp{
		Target:     target{Spec: "particle-color"},
		Expression: `"red"`,
		Output:     formatJSON,
	}

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Ramp.Run() error = %v", err)
	}

	var got struct {
		Width   int        `json:"width"`
		Height  int        `json:"height"`
		Samples [][4]uint8 `json:"samples"`
	}

	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v\n%s", err, out)
	}

	if got.Width != ramp.Width || got.Height != ramp.Height {
		t.Errorf("size = %dx%d, want %dx%d", got.Width, got.Height, ramp.Width, ramp.Height)
	}

	if len(got.Samples) != ramp.Samples {
		t.Fatalf("len(samples) = %d, want %d", len(got.Samples), ramp.Samples)
	}

	if diff := cmp.Diff([4]uint8(red), got.Samples[ramp.Samples-1]); diff != "" {
		t.Errorf("last sample mismatch (-want +got):\n%s", diff)
	}
}

func TestRampErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ramp    Ramp
		wantErr error
	}{
		{
			name:    "not_color",
			ramp:    Ramp{Target: target{Spec: "particle-speed"}, Expression: "1", Output: "rgba"},
			wantErr: ramp.ErrNotColor,
		},
		{
			name: "bad_formula",
			ramp: Ramp{
				Target:     target{Spec: "particle-color"},
				Expression: `"red"`,
				Input:      "t +",
				Output:     "rgba",
			},
			wantErr: ramp.ErrFormulaCompile,
		},
		{
			name:    "no_source",
			ramp:    Ramp{Target: target{Spec: "particle-color"}, Output: "rgba"},
			wantErr: ErrNoSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, _ := testContext(t, nil)

			if err := tt.ramp.Run(ctx); !errors.Is(err, tt.wantErr) {
				t.Errorf("Ramp.Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
