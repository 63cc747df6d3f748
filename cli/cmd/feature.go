package cmd

import (
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/ardnew/windstyle/expression"
	"github.com/ardnew/windstyle/geometry"
	"github.com/ardnew/windstyle/ramp"
)

// feature holds the flags describing the camera and the feature an
// expression is evaluated against.
//
// Property and state values are formulas. Each formula may read zoom and
// every property assigned before it.
type feature struct {
	Zoom     float64  `help:"Camera zoom level"                                  short:"z"`
	Prop     []string `help:"Feature property computed by a formula"            placeholder:"KEY=FORMULA" sep:"none" short:"p"`
	State    []string `help:"Feature state computed by a formula"               placeholder:"KEY=FORMULA" sep:"none"`
	ID       string   `help:"Feature id; numeric ids are numbers"               placeholder:"ID"`
	Geometry string   `default:"Point" enum:"Point,LineString,Polygon"           help:"Feature geometry type"`
	Point    []string `help:"Tile-local point of the feature geometry"          placeholder:"X,Y"         sep:"none"`
	Tile     string   `help:"Canonical tile of the feature geometry"            placeholder:"Z/X/Y"`
	Image    []string `help:"Name of an image available to image expressions"`
}

func parseAssignments(flags []string) ([]ramp.Assignment, error) {
	out := make([]ramp.Assignment, 0, len(flags))

	for _, s := range flags {
		a, err := ramp.ParseAssignment(s)
		if err != nil {
			return nil, ErrInvalidFlag.Wrap(err)
		}

		out = append(out, a)
	}

	return out, nil
}

// context builds the evaluation context described by the flags.
func (f feature) context() (expression.EvaluationContext, error) {
	env := map[string]any{"zoom": f.Zoom}

	props, err := parseAssignments(f.Prop)
	if err != nil {
		return expression.EvaluationContext{}, err
	}

	properties, err := ramp.Assign(env, props...)
	if err != nil {
		return expression.EvaluationContext{}, err
	}

	state, err := parseAssignments(f.State)
	if err != nil {
		return expression.EvaluationContext{}, err
	}

	maps.Copy(env, properties)

	featureState, err := ramp.Assign(env, state...)
	if err != nil {
		return expression.EvaluationContext{}, err
	}

	feat := &expression.Feature{Properties: properties}

	if f.ID != "" {
		feat.ID = f.ID
		if n, err := strconv.ParseFloat(f.ID, 64); err == nil {
			feat.ID = n
		}
	}

	if err := f.geometry(feat); err != nil {
		return expression.EvaluationContext{}, err
	}

	in := expression.EvaluationContext{
		Globals:         &expression.Globals{Zoom: f.Zoom},
		Feature:         feat,
		FeatureState:    featureState,
		AvailableImages: f.Image,
	}

	if f.Tile != "" {
		id, err := geometry.ParseTileID(f.Tile)
		if err != nil {
			return expression.EvaluationContext{}, ErrInvalidFlag.Wrap(err).
				With(slog.String("flag", "tile"))
		}

		in.Canonical = &id
	}

	return in, nil
}

// geometry sets the geometry of feat from the point flags. Points are
// separate parts of a Point geometry, and one line or ring otherwise.
func (f feature) geometry(feat *expression.Feature) error {
	if len(f.Point) == 0 {
		return nil
	}

	typ, ok := geometry.TypeFromName(f.Geometry)
	if !ok {
		typ = geometry.PointType
	}

	points := make([]geometry.Point, 0, len(f.Point))

	for _, s := range f.Point {
		p, err := parsePoint(s)
		if err != nil {
			return err
		}

		points = append(points, p)
	}

	feat.Type = typ

	if typ == geometry.PointType {
		for _, p := range points {
			feat.Geometry = append(feat.Geometry, []geometry.Point{p})
		}

		return nil
	}

	feat.Geometry = [][]geometry.Point{points}

	return nil
}

func parsePoint(s string) (geometry.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if ok {
		x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)

		if errX == nil && errY == nil {
			return geometry.Point{X: x, Y: y}, nil
		}
	}

	return geometry.Point{}, ErrInvalidFlag.With(
		slog.String("flag", "point"),
		slog.String("value", s),
		slog.String("want", "X,Y"),
	)
}
