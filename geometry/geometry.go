// Package geometry implements the spatial predicates behind the "within"
// and "distance" style expressions.
//
// Features are evaluated in tile-local integer coordinates ([Point]) of a
// canonical tile ([TileID]), while reference geometries are GeoJSON
// longitude/latitude [Position] values. Containment is computed in world
// tile space; distances are computed in meters with a [Ruler] tuned to the
// latitude of the feature.
package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a tile-local coordinate in the range [0, Extent).
type Point struct {
	X, Y float64
}

// Position is an [x, y] pair: longitude/latitude for GeoJSON input, or
// world tile units after projection.
type Position [2]float64

// BBox is [minX, minY, maxX, maxY].
type BBox [4]float64

// Type is a vector-tile geometry type.
type Type int

// Vector-tile geometry types.
const (
	Unknown Type = iota
	PointType
	LineStringType
	PolygonType
)

func (t Type) String() string {
	switch t {
	case PointType:
		return "Point"
	case LineStringType:
		return "LineString"
	case PolygonType:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// TypeFromName maps a GeoJSON geometry type name to its simple type, folding
// Multi* variants onto their base type.
func TypeFromName(name string) (Type, bool) {
	switch strings.TrimPrefix(name, "Multi") {
	case "Point":
		return PointType, true
	case "LineString":
		return LineStringType, true
	case "Polygon":
		return PolygonType, true
	case "Unknown":
		return Unknown, name == "Unknown"
	}

	return Unknown, false
}

// TileID addresses a tile in the z/x/y pyramid.
type TileID struct {
	Z, X, Y int
}

func (id TileID) String() string {
	return strconv.Itoa(id.Z) + "/" + strconv.Itoa(id.X) + "/" + strconv.Itoa(id.Y)
}

// ParseTileID parses "z/x/y".
func ParseTileID(s string) (TileID, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return TileID{}, fmt.Errorf("invalid tile id %q: want z/x/y", s)
	}

	var v [3]int

	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return TileID{}, fmt.Errorf("invalid tile id %q: bad component %q", s, p)
		}

		v[i] = n
	}

	if v[1] >= 1<<v[0] || v[2] >= 1<<v[0] {
		return TileID{}, fmt.Errorf("invalid tile id %q: out of range for zoom %d", s, v[0])
	}

	return TileID{Z: v[0], X: v[1], Y: v[2]}, nil
}

// Polygon is a list of rings, the first being the outer ring.
type Polygon [][]Position

// Geometry is a simple (non-multi) GeoJSON geometry.
type Geometry struct {
	Type    Type
	Point   Position
	Line    []Position
	Polygon Polygon
}

// PolygonsFromGeoJSON collects the polygons of a GeoJSON Polygon,
// MultiPolygon, Feature, or FeatureCollection. The second result is false if
// v holds no polygon geometry.
func PolygonsFromGeoJSON(v any) ([]Polygon, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	switch obj["type"] {
	case "FeatureCollection":
		features, _ := obj["features"].([]any)

		var out []Polygon

		for _, f := range features {
			feature, _ := f.(map[string]any)
			if feature == nil {
				continue
			}

			geom, _ := feature["geometry"].(map[string]any)
			if geom == nil {
				continue
			}

			if polys, ok := polygonsOf(geom); ok {
				out = append(out, polys...)
			}
		}

		return out, len(out) > 0
	case "Feature":
		geom, _ := obj["geometry"].(map[string]any)
		if geom == nil {
			return nil, false
		}

		return polygonsOf(geom)
	}

	return polygonsOf(obj)
}

func polygonsOf(geom map[string]any) ([]Polygon, bool) {
	switch geom["type"] {
	case "Polygon":
		p, ok := toPolygon(geom["coordinates"])
		if !ok {
			return nil, false
		}

		return []Polygon{p}, true
	case "MultiPolygon":
		return toPolygons(geom["coordinates"])
	}

	return nil, false
}

// GeometriesFromGeoJSON flattens a GeoJSON geometry, Feature, or
// FeatureCollection into simple geometries. Multi* geometries are split into
// their parts; unsupported geometry types are skipped.
func GeometriesFromGeoJSON(v any) ([]Geometry, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	switch obj["type"] {
	case "FeatureCollection":
		features, ok := obj["features"].([]any)
		if !ok {
			return nil, false
		}

		var out []Geometry

		for _, f := range features {
			feature, _ := f.(map[string]any)
			geom, _ := feature["geometry"].(map[string]any)

			gs, ok := simplify(geom)
			if !ok {
				return nil, false
			}

			out = append(out, gs...)
		}

		return out, true
	case "Feature":
		geom, _ := obj["geometry"].(map[string]any)

		return simplify(geom)
	}

	if _, ok := obj["coordinates"]; !ok {
		return nil, false
	}

	return simplify(obj)
}

func simplify(geom map[string]any) ([]Geometry, bool) {
	if geom == nil {
		return nil, false
	}

	coords := geom["coordinates"]

	switch geom["type"] {
	case "Point":
		p, ok := toPosition(coords)

		return []Geometry{{Type: PointType, Point: p}}, ok
	case "MultiPoint":
		line, ok := toLine(coords)
		out := make([]Geometry, len(line))

		for i, p := range line {
			out[i] = Geometry{Type: PointType, Point: p}
		}

		return out, ok
	case "LineString":
		line, ok := toLine(coords)

		return []Geometry{{Type: LineStringType, Line: line}}, ok
	case "MultiLineString":
		lines, ok := toRings(coords)
		out := make([]Geometry, len(lines))

		for i, l := range lines {
			out[i] = Geometry{Type: LineStringType, Line: l}
		}

		return out, ok
	case "Polygon":
		p, ok := toPolygon(coords)

		return []Geometry{{Type: PolygonType, Polygon: p}}, ok
	case "MultiPolygon":
		polys, ok := toPolygons(coords)
		out := make([]Geometry, len(polys))

		for i, p := range polys {
			out[i] = Geometry{Type: PolygonType, Polygon: p}
		}

		return out, ok
	}

	return nil, true
}

func toPosition(v any) (Position, bool) {
	a, ok := v.([]any)
	if !ok || len(a) < 2 {
		return Position{}, false
	}

	x, okx := a[0].(float64)
	y, oky := a[1].(float64)

	return Position{x, y}, okx && oky
}

func toLine(v any) ([]Position, bool) {
	a, ok := v.([]any)
	if !ok {
		return nil, false
	}

	out := make([]Position, len(a))
	for i, p := range a {
		if out[i], ok = toPosition(p); !ok {
			return nil, false
		}
	}

	return out, true
}

func toRings(v any) ([][]Position, bool) {
	a, ok := v.([]any)
	if !ok {
		return nil, false
	}

	out := make([][]Position, len(a))
	for i, r := range a {
		if out[i], ok = toLine(r); !ok {
			return nil, false
		}
	}

	return out, true
}

func toPolygon(v any) (Polygon, bool) {
	rings, ok := toRings(v)

	return Polygon(rings), ok
}

func toPolygons(v any) ([]Polygon, bool) {
	a, ok := v.([]any)
	if !ok {
		return nil, false
	}

	out := make([]Polygon, len(a))
	for i, p := range a {
		if out[i], ok = toPolygon(p); !ok {
			return nil, false
		}
	}

	return out, true
}
