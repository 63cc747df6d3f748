// Package ramp builds the color lookup table a wind particle layer uses to
// color particles by speed.
//
// A ramp holds 256 RGBA samples laid out as a 16×16 image. Sample i is the
// color property evaluated for a feature whose speed property is i/255 of
// the wind speed range.
package ramp

import (
	"context"
	"image"
	"log/slog"
	"math"

	"github.com/ardnew/windstyle/color"
	"github.com/ardnew/windstyle/expression"
)

// Ramp dimensions.
const (
	Width   = 16
	Height  = 16
	Samples = Width * Height
)

// Wind is the extent of the wind vector components of a data set.
type Wind struct {
	UMin, UMax float64
	VMin, VMax float64
}

// Range returns the length of the diagonal of the component extent.
func (w Wind) Range() float64 {
	return math.Hypot(w.UMax-w.UMin, w.VMax-w.VMin)
}

// Ramp is a table of [Samples] premultiplied RGBA colors.
type Ramp struct {
	Pix [Samples * 4]uint8
}

// Image returns the ramp as a 16×16 image, sample 0 at the top left.
func (r *Ramp) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	copy(img.Pix, r.Pix[:])

	return img
}

// At returns sample i.
func (r *Ramp) At(i int) [4]uint8 {
	return [4]uint8(r.Pix[i*4 : i*4+4])
}

// Option configures [Build].
type Option func(*builder)

type builder struct {
	input *Formula
	wind  Wind
	zoom  float64
}

// WithWind sets the wind extent whose range scales the speed input of
// source and composite properties.
func WithWind(w Wind) Option {
	return func(b *builder) { b.wind = w }
}

// WithZoom sets the zoom used to evaluate camera and composite properties.
func WithZoom(zoom float64) Option {
	return func(b *builder) { b.zoom = zoom }
}

// WithInput replaces the default speed input with a formula. A numeric
// result becomes the speed property, and an object result supplies every
// feature property.
func WithInput(f *Formula) Option {
	return func(b *builder) { b.input = f }
}

// Build evaluates the color property pe once per sample.
func Build(ctx context.Context, pe expression.PropertyExpression, opts ...Option) (*Ramp, error) {
	var b builder

	for _, opt := range opts {
		opt(&b)
	}

	kind := pe.Kind()

	scale := 1.0
	if kind == expression.PropertySource || kind == expression.PropertyComposite {
		scale = b.wind.Range()
	}

	globals := &expression.Globals{}
	if kind == expression.PropertyCamera || kind == expression.PropertyComposite {
		globals.Zoom = b.zoom
	}

	var r Ramp

	for i := range Samples {
		props, err := b.properties(i, scale)
		if err != nil {
			return nil, err
		}

		v := pe.Evaluate(ctx, expression.EvaluationContext{
			Globals: globals,
			Feature: &expression.Feature{Properties: props},
		})

		c, ok := v.(*color.Color)
		if !ok {
			return nil, ErrNotColor.With(
				slog.Int("sample", i),
				slog.String("value", expression.ValueToString(v)),
			)
		}

		px := c.Bytes()
		copy(r.Pix[i*4:], px[:])
	}

	return &r, nil
}

func (b *builder) properties(i int, scale float64) (map[string]any, error) {
	t := float64(i) / (Samples - 1)

	if b.input == nil {
		return map[string]any{"speed": t * scale}, nil
	}

	v, err := b.input.Eval(map[string]any{
		"i":      i,
		"t":      t,
		"extent": scale,
		"zoom":   b.zoom,
	})
	if err != nil {
		return nil, err
	}

	if props, ok := v.(map[string]any); ok {
		return props, nil
	}

	return map[string]any{"speed": v}, nil
}
