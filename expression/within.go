package expression

import (
	"math"
	"strconv"

	"github.com/ardnew/windstyle/geometry"
)

// Within tests whether the feature geometry lies inside a constant set of
// GeoJSON polygons. It is false for features other than points and lines
// and when no tile geometry is available.
type Within struct {
	geojson  any
	polygons []geometry.Polygon
	typed
}

func parseWithin(args []any, ctx *ParsingContext) Expression {
	if len(args) != 2 {
		return ctx.fail("'within' expression requires exactly one argument, but found " +
			strconv.Itoa(len(args)-1) + " instead.")
	}

	polygons, ok := geometry.PolygonsFromGeoJSON(args[1])
	if !ok {
		return ctx.fail("'within' expression requires valid geojson object that contains polygon geometry type.")
	}

	return &Within{typed: typed{BooleanType}, geojson: args[1], polygons: polygons}
}

func (e *Within) Evaluate(ctx *EvaluationContext) (any, error) {
	geom := ctx.Geometry()
	if geom == nil || ctx.Canonical == nil {
		return false, nil
	}

	switch ctx.GeometryDollarType() {
	case "Point":
		return geometry.PointsWithin(geom, *ctx.Canonical, e.polygons), nil
	case "LineString":
		return geometry.LinesWithin(geom, *ctx.Canonical, e.polygons), nil
	}

	return false, nil
}

func (e *Within) Children() []Expression { return nil }

func (e *Within) OutputDefined() bool { return true }

// Distance returns the shortest distance in meters from the feature
// geometry to a constant set of GeoJSON geometries, or NaN when it cannot
// be computed.
type Distance struct {
	geojson    any
	geometries []geometry.Geometry
	typed
}

func parseDistance(args []any, ctx *ParsingContext) Expression {
	if len(args) != 2 {
		return ctx.fail("'distance' expression requires exactly one argument, but found " +
			strconv.Itoa(len(args)-1) + " instead.")
	}

	geometries, ok := geometry.GeometriesFromGeoJSON(args[1])
	if !ok {
		return ctx.fail("'distance' expression requires valid geojson object that contains polygon geometry type.")
	}

	return &Distance{typed: typed{NumberType}, geojson: args[1], geometries: geometries}
}

func (e *Distance) Evaluate(ctx *EvaluationContext) (any, error) {
	geom := ctx.Geometry()
	if geom == nil || ctx.Canonical == nil {
		return math.NaN(), nil
	}

	var kind geometry.Type

	switch ctx.GeometryType() {
	case "Point":
		kind = geometry.PointType
	case "LineString":
		kind = geometry.LineStringType
	case "Polygon":
		kind = geometry.PolygonType
	default:
		return math.NaN(), nil
	}

	return geometry.Distance(kind, geom, *ctx.Canonical, e.geometries), nil
}

func (e *Distance) Children() []Expression { return nil }

func (e *Distance) OutputDefined() bool { return true }
