package expression

import (
	"github.com/ardnew/windstyle/color"
	"github.com/ardnew/windstyle/geometry"
)

// Globals holds the camera and renderer state an expression may read.
type Globals struct {
	// IsSupportedScript reports whether the renderer can shape text in the
	// script of the given string. A nil hook supports every script.
	IsSupportedScript func(string) bool

	// Accumulated, HeatmapDensity, and LineProgress are nil when the
	// renderer does not provide them.
	Accumulated    any
	HeatmapDensity any
	LineProgress   any

	Zoom float64
}

// Feature is the vector-tile feature being evaluated.
type Feature struct {
	// ID is nil when the feature has no id.
	ID         any
	Properties map[string]any

	// TypeName, when set, is the GeoJSON geometry type name of the feature
	// (such as "MultiPolygon") and takes precedence over Type.
	TypeName string

	// Geometry holds tile-local rings or lines of points.
	Geometry [][]geometry.Point
	Type     geometry.Type
}

// EvaluationContext carries the per-call inputs of an evaluation. It must
// not be shared between concurrent evaluations.
type EvaluationContext struct {
	Globals          *Globals
	Feature          *Feature
	FeatureState     map[string]any
	Canonical        *geometry.TileID
	FormattedSection *FormattedSection
	colors           map[string]*color.Color
	AvailableImages  []string
}

// ID returns the feature id or null.
func (c *EvaluationContext) ID() any {
	if c.Feature == nil {
		return nil
	}

	return c.Feature.ID
}

// GeometryDollarType returns the simple geometry type name of the feature
// ("Point", "LineString", "Polygon", or "Unknown"), or null without a
// feature.
func (c *EvaluationContext) GeometryDollarType() any {
	if c.Feature == nil {
		return nil
	}

	if c.Feature.TypeName != "" {
		t, ok := geometry.TypeFromName(c.Feature.TypeName)
		if !ok {
			return nil
		}

		return t.String()
	}

	return c.Feature.Type.String()
}

// GeometryType returns the GeoJSON geometry type name of the feature,
// distinguishing the Multi* variants by the number of parts.
func (c *EvaluationContext) GeometryType() any {
	if c.Feature == nil {
		return nil
	}

	if c.Feature.TypeName != "" {
		return c.Feature.TypeName
	}

	name := c.Feature.Type.String()
	if c.Feature.Type == geometry.Unknown {
		return name
	}

	geom := c.Feature.Geometry

	switch {
	case len(geom) == 1:
		return name
	case c.Feature.Type != geometry.PolygonType:
		return "Multi" + name
	case geometry.HasMultipleOuterRings(geom):
		return "MultiPolygon"
	}

	return "Polygon"
}

// Geometry returns the tile-local geometry of the feature, or nil.
func (c *EvaluationContext) Geometry() [][]geometry.Point {
	if c.Feature == nil {
		return nil
	}

	return c.Feature.Geometry
}

// Properties returns the feature properties, never nil.
func (c *EvaluationContext) Properties() map[string]any {
	if c.Feature == nil || c.Feature.Properties == nil {
		return map[string]any{}
	}

	return c.Feature.Properties
}

func (c *EvaluationContext) state() map[string]any {
	if c.FeatureState == nil {
		return map[string]any{}
	}

	return c.FeatureState
}

// ParseColor parses s, memoizing the result for the lifetime of c.
func (c *EvaluationContext) ParseColor(s string) (*color.Color, bool) {
	if col, ok := c.colors[s]; ok {
		return col, col != nil
	}

	col, ok := color.Parse(s)
	if !ok {
		col = nil
	}

	if c.colors == nil {
		c.colors = make(map[string]*color.Color)
	}

	c.colors[s] = col

	return col, ok
}

// reset clears the per-call inputs while keeping the color memo.
func (c *EvaluationContext) reset() {
	colors := c.colors
	*c = EvaluationContext{colors: colors}
}
