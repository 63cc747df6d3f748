package geometry

import "math"

// EmptyBBox returns a box that contains nothing and grows with Extend.
func EmptyBBox() BBox {
	return BBox{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

// Extend grows b to include p.
func (b *BBox) Extend(p Position) {
	b[0] = math.Min(b[0], p[0])
	b[1] = math.Min(b[1], p[1])
	b[2] = math.Max(b[2], p[0])
	b[3] = math.Max(b[3], p[1])
}

// Valid reports whether b has been extended by at least one position.
func (b BBox) Valid() bool {
	return !math.IsInf(b[0], -1) && !math.IsInf(b[1], -1) &&
		!math.IsInf(b[2], 1) && !math.IsInf(b[3], 1)
}

// Within reports whether b lies strictly inside outer.
func (b BBox) Within(outer BBox) bool {
	return b[0] > outer[0] && b[2] < outer[2] && b[1] > outer[1] && b[3] < outer[3]
}

func rayIntersect(p, p1, p2 Position) bool {
	return (p1[1] > p[1]) != (p2[1] > p[1]) &&
		p[0] < (p2[0]-p1[0])*(p[1]-p1[1])/(p2[1]-p1[1])+p1[0]
}

func onBoundary(p, p1, p2 Position) bool {
	x1, y1 := p[0]-p1[0], p[1]-p1[1]
	x2, y2 := p[0]-p2[0], p[1]-p2[1]

	return x1*y2-x2*y1 == 0 && x1*x2 <= 0 && y1*y2 <= 0
}

func perp(v1, v2 Position) float64 {
	return v1[0]*v2[1] - v1[1]*v2[0]
}

// twoSided reports whether p1 and p2 lie strictly on opposite sides of the
// line through q1 and q2.
func twoSided(p1, p2, q1, q2 Position) bool {
	x1, y1 := p1[0]-q1[0], p1[1]-q1[1]
	x2, y2 := p2[0]-q1[0], p2[1]-q1[1]
	x3, y3 := q2[0]-q1[0], q2[1]-q1[1]
	det1 := x1*y3 - x3*y1
	det2 := x2*y3 - x3*y2

	return (det1 > 0 && det2 < 0) || (det1 < 0 && det2 > 0)
}

// segmentsIntersect reports whether segments a-b and c-d properly cross.
// Parallel segments never intersect.
func segmentsIntersect(a, b, c, d Position) bool {
	vp := Position{b[0] - a[0], b[1] - a[1]}
	vq := Position{d[0] - c[0], d[1] - c[1]}

	if perp(vq, vp) == 0 {
		return false
	}

	return twoSided(a, b, c, d) && twoSided(c, d, a, b)
}

func lineIntersectsPolygon(p1, p2 Position, polygon Polygon) bool {
	for _, ring := range polygon {
		for j := 0; j < len(ring)-1; j++ {
			if segmentsIntersect(p1, p2, ring[j], ring[j+1]) {
				return true
			}
		}
	}

	return false
}

// PointWithinPolygon tests p against closed rings by ray casting. Points on
// an edge report onBoundary.
func PointWithinPolygon(p Position, rings Polygon, onBoundaryResult bool) bool {
	inside := false

	for _, ring := range rings {
		for j := 0; j < len(ring)-1; j++ {
			if onBoundary(p, ring[j], ring[j+1]) {
				return onBoundaryResult
			}

			if rayIntersect(p, ring[j], ring[j+1]) {
				inside = !inside
			}
		}
	}

	return inside
}

func pointWithinPolygons(p Position, polygons []Polygon) bool {
	for _, polygon := range polygons {
		if PointWithinPolygon(p, polygon, false) {
			return true
		}
	}

	return false
}

func lineWithinPolygon(line []Position, polygon Polygon) bool {
	for _, p := range line {
		if !PointWithinPolygon(p, polygon, false) {
			return false
		}
	}

	for i := 0; i < len(line)-1; i++ {
		if lineIntersectsPolygon(line[i], line[i+1], polygon) {
			return false
		}
	}

	return true
}

func lineWithinPolygons(line []Position, polygons []Polygon) bool {
	for _, polygon := range polygons {
		if lineWithinPolygon(line, polygon) {
			return true
		}
	}

	return false
}

// PointsWithin reports whether every point of a tile-local point feature
// lies inside at least one of the GeoJSON polygons.
func PointsWithin(geom [][]Point, canonical TileID, polygons []Polygon) bool {
	polyBBox := EmptyBBox()
	tilePolygons := projectPolygons(polygons, &polyBBox, canonical)

	pointBBox := EmptyBBox()
	points := worldPoints(geom, &pointBBox, polyBBox, canonical)

	if !pointBBox.Within(polyBBox) {
		return false
	}

	for _, p := range points {
		if !pointWithinPolygons(p, tilePolygons) {
			return false
		}
	}

	return true
}

// LinesWithin reports whether every line of a tile-local line feature lies
// inside one of the GeoJSON polygons without crossing its boundary.
func LinesWithin(geom [][]Point, canonical TileID, polygons []Polygon) bool {
	polyBBox := EmptyBBox()
	tilePolygons := projectPolygons(polygons, &polyBBox, canonical)

	lineBBox := EmptyBBox()
	lines := worldLines(geom, &lineBBox, polyBBox, canonical)

	if !lineBBox.Within(polyBBox) {
		return false
	}

	for _, line := range lines {
		if !lineWithinPolygons(line, tilePolygons) {
			return false
		}
	}

	return true
}
