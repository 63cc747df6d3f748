package geometry

import (
	"cmp"
	"math"

	"github.com/emirpasic/gods/queues/priorityqueue"
)

// Point sets at or below these sizes are compared by brute force.
const (
	MinPointsSize     = 100
	MinLinePointsSize = 50
)

// span is an inclusive index range into a point set.
type span struct{ lo, hi int }

func (s span) size() int { return s.hi - s.lo + 1 }

func (s span) safe(n int) bool { return s.hi >= s.lo && s.hi < n }

// split halves s. Line ranges share their middle point so that no segment
// is lost; point ranges are disjoint.
func (s span) split(isLine bool) []span {
	if s.lo > s.hi {
		return nil
	}

	size := s.size()

	if isLine {
		if size == 2 {
			return []span{s}
		}

		half := size / 2

		return []span{{s.lo, s.lo + half}, {s.lo + half, s.hi}}
	}

	if size == 1 {
		return []span{s}
	}

	half := size/2 - 1

	return []span{{s.lo, s.lo + half}, {s.lo + half + 1, s.hi}}
}

func threshold(isLine bool) int {
	if isLine {
		return MinLinePointsSize
	}

	return MinPointsSize
}

// candidate is a pair of ranges awaiting refinement, keyed by the distance
// between their bounding boxes.
type candidate struct {
	dist float64
	a, b span
}

// newQueue returns a priority queue that yields the candidate with the
// greatest lower bound first.
func newQueue(seed candidate) *priorityqueue.Queue {
	q := priorityqueue.NewWith(func(x, y any) int {
		return cmp.Compare(y.(candidate).dist, x.(candidate).dist)
	})
	q.Enqueue(seed)

	return q
}

func rangeBBox(coords []Position, s span) BBox {
	bbox := EmptyBBox()
	if !s.safe(len(coords)) {
		return bbox
	}

	for i := s.lo; i <= s.hi; i++ {
		bbox.Extend(coords[i])
	}

	return bbox
}

func polygonBBox(polygon Polygon) BBox {
	bbox := EmptyBBox()

	for _, ring := range polygon {
		for _, p := range ring {
			bbox.Extend(p)
		}
	}

	return bbox
}

// bboxDistance is the distance between the nearest edges of two boxes, or 0
// if they overlap.
func bboxDistance(b1, b2 BBox, r Ruler) float64 {
	if !b1.Valid() || !b2.Valid() {
		return math.NaN()
	}

	var dx, dy float64

	if b1[2] < b2[0] {
		dx = b2[0] - b1[2]
	}

	if b1[0] > b2[2] {
		dx = b1[0] - b2[2]
	}

	if b1[1] > b2[3] {
		dy = b1[1] - b2[3]
	}

	if b1[3] < b2[1] {
		dy = b2[1] - b1[3]
	}

	return r.Distance(Position{0, 0}, Position{dx, dy})
}

func pointToLineDistance(p Position, line []Position, r Ruler) float64 {
	nearest, _, _ := r.PointOnLine(line, p)

	return r.Distance(p, nearest)
}

func segmentDistance(p1, p2, q1, q2 Position, r Ruler) float64 {
	d1 := math.Min(
		pointToLineDistance(p1, []Position{q1, q2}, r),
		pointToLineDistance(p2, []Position{q1, q2}, r),
	)
	d2 := math.Min(
		pointToLineDistance(q1, []Position{p1, p2}, r),
		pointToLineDistance(q2, []Position{p1, p2}, r),
	)

	return math.Min(d1, d2)
}

func lineToLineDistance(l1 []Position, s1 span, l2 []Position, s2 span, r Ruler) float64 {
	if !s1.safe(len(l1)) || !s2.safe(len(l2)) {
		return math.Inf(1)
	}

	dist := math.Inf(1)

	for i := s1.lo; i < s1.hi; i++ {
		p1, p2 := l1[i], l1[i+1]

		for j := s2.lo; j < s2.hi; j++ {
			q1, q2 := l2[j], l2[j+1]
			if segmentsIntersect(p1, p2, q1, q2) {
				return 0
			}

			dist = math.Min(dist, segmentDistance(p1, p2, q1, q2, r))
		}
	}

	return dist
}

func pointsToPointsDistance(p1 []Position, s1 span, p2 []Position, s2 span, r Ruler) float64 {
	if !s1.safe(len(p1)) || !s2.safe(len(p2)) {
		return math.NaN()
	}

	dist := math.Inf(1)

	for i := s1.lo; i <= s1.hi; i++ {
		for j := s2.lo; j <= s2.hi; j++ {
			if dist = math.Min(dist, r.Distance(p1[i], p2[j])); dist == 0 {
				return 0
			}
		}
	}

	return dist
}

func pointToPolygonDistance(p Position, polygon Polygon, r Ruler) float64 {
	if PointWithinPolygon(p, polygon, true) {
		return 0
	}

	dist := math.Inf(1)

	for _, ring := range polygon {
		if len(ring) == 0 {
			continue
		}

		// Close rings that do not repeat their first position.
		front, back := ring[0], ring[len(ring)-1]
		if front != back {
			if dist = math.Min(dist, pointToLineDistance(p, []Position{back, front}, r)); dist == 0 {
				return 0
			}
		}

		if dist = math.Min(dist, pointToLineDistance(p, ring, r)); dist == 0 {
			return 0
		}
	}

	return dist
}

func lineToPolygonDistance(line []Position, s span, polygon Polygon, r Ruler) float64 {
	if !s.safe(len(line)) {
		return math.NaN()
	}

	for i := s.lo; i <= s.hi; i++ {
		if PointWithinPolygon(line[i], polygon, true) {
			return 0
		}
	}

	dist := math.Inf(1)

	for i := s.lo; i < s.hi; i++ {
		p1, p2 := line[i], line[i+1]

		for _, ring := range polygon {
			for j, k := 0, len(ring)-1; j < len(ring); k, j = j, j+1 {
				q1, q2 := ring[k], ring[j]
				if segmentsIntersect(p1, p2, q1, q2) {
					return 0
				}

				dist = math.Min(dist, segmentDistance(p1, p2, q1, q2, r))
			}
		}
	}

	return dist
}

func polygonsIntersect(poly1, poly2 Polygon) bool {
	for _, ring := range poly1 {
		for _, p := range ring {
			if PointWithinPolygon(p, poly2, true) {
				return true
			}
		}
	}

	return false
}

func polygonToPolygonDistance(poly1, poly2 Polygon, r Ruler, best float64) float64 {
	b1, b2 := polygonBBox(poly1), polygonBBox(poly2)
	if !math.IsInf(best, 1) && bboxDistance(b1, b2, r) >= best {
		return best
	}

	if b1.Within(b2) {
		if polygonsIntersect(poly1, poly2) {
			return 0
		}
	} else if polygonsIntersect(poly2, poly1) {
		return 0
	}

	dist := math.Inf(1)

	for _, ring1 := range poly1 {
		for i, l := 0, len(ring1)-1; i < len(ring1); l, i = i, i+1 {
			p1, p2 := ring1[l], ring1[i]

			for _, ring2 := range poly2 {
				for j, k := 0, len(ring2)-1; j < len(ring2); k, j = j, j+1 {
					q1, q2 := ring2[k], ring2[j]
					if segmentsIntersect(p1, p2, q1, q2) {
						return 0
					}

					dist = math.Min(dist, segmentDistance(p1, p2, q1, q2, r))
				}
			}
		}
	}

	return dist
}

// pointsToPolygonDistance searches for the nearest point (or segment, if
// isLine) of points to polygon by recursively halving the point range,
// discarding halves whose bounding box is already farther than the best
// distance found so far.
func pointsToPolygonDistance(points []Position, isLine bool, polygon Polygon, r Ruler, best float64) float64 {
	if len(points) == 0 || len(polygon) == 0 || len(polygon[0]) == 0 {
		return math.NaN()
	}

	minDist := math.Min(r.Distance(points[0], polygon[0][0]), best)
	if minDist == 0 {
		return 0
	}

	polyBBox := polygonBBox(polygon)
	queue := newQueue(candidate{0, span{0, len(points) - 1}, span{}})

	for !queue.Empty() {
		v, _ := queue.Dequeue()
		c := v.(candidate)

		if c.dist >= minDist {
			continue
		}

		if c.a.size() <= threshold(isLine) {
			if !c.a.safe(len(points)) {
				return math.NaN()
			}

			if isLine {
				d := lineToPolygonDistance(points, c.a, polygon, r)
				if math.IsNaN(d) || d == 0 {
					return d
				}

				minDist = math.Min(minDist, d)

				continue
			}

			for i := c.a.lo; i <= c.a.hi; i++ {
				if minDist = math.Min(minDist, pointToPolygonDistance(points[i], polygon, r)); minDist == 0 {
					return 0
				}
			}

			continue
		}

		for _, s := range c.a.split(isLine) {
			if d := bboxDistance(rangeBBox(points, s), polyBBox, r); d < minDist {
				queue.Enqueue(candidate{d, s, span{}})
			}
		}
	}

	return minDist
}

// pointSetDistance is the two-sided variant of pointsToPolygonDistance for
// two point sets, each of which may be a line.
func pointSetDistance(set1 []Position, isLine1 bool, set2 []Position, isLine2 bool, r Ruler, best float64) float64 {
	if len(set1) == 0 || len(set2) == 0 {
		return math.NaN()
	}

	minDist := math.Min(best, r.Distance(set1[0], set2[0]))
	if minDist == 0 {
		return 0
	}

	queue := newQueue(candidate{0, span{0, len(set1) - 1}, span{0, len(set2) - 1}})

	for !queue.Empty() {
		v, _ := queue.Dequeue()
		c := v.(candidate)

		if c.dist >= minDist {
			continue
		}

		if c.a.size() <= threshold(isLine1) && c.b.size() <= threshold(isLine2) {
			if !c.a.safe(len(set1)) && c.b.safe(len(set2)) {
				return math.NaN()
			}

			switch {
			case isLine1 && isLine2:
				minDist = math.Min(minDist, lineToLineDistance(set1, c.a, set2, c.b, r))
			case isLine1:
				sub := set1[c.a.lo : c.a.hi+1]
				for i := c.b.lo; i <= c.b.hi; i++ {
					if minDist = math.Min(minDist, pointToLineDistance(set2[i], sub, r)); minDist == 0 {
						return 0
					}
				}
			case isLine2:
				sub := set2[c.b.lo : c.b.hi+1]
				for i := c.a.lo; i <= c.a.hi; i++ {
					if minDist = math.Min(minDist, pointToLineDistance(set1[i], sub, r)); minDist == 0 {
						return 0
					}
				}
			default:
				minDist = math.Min(minDist, pointsToPointsDistance(set1, c.a, set2, c.b, r))
			}

			continue
		}

		for _, sa := range c.a.split(isLine1) {
			for _, sb := range c.b.split(isLine2) {
				d := bboxDistance(rangeBBox(set1, sa), rangeBBox(set2, sb), r)
				if d < minDist {
					queue.Enqueue(candidate{d, sa, sb})
				}
			}
		}
	}

	return minDist
}

// Distance returns the minimum distance in meters between a tile-local
// feature of type kind and any of the reference geometries. It returns NaN
// for an empty feature or an unsupported kind, and 0 as soon as any overlap
// or crossing is found.
func Distance(kind Type, geom [][]Point, canonical TileID, refs []Geometry) float64 {
	switch kind {
	case PointType, LineStringType:
		return pointsDistance(kind == LineStringType, geom, canonical, refs)
	case PolygonType:
		return polygonDistance(geom, canonical, refs)
	}

	return math.NaN()
}

func pointsDistance(isLine bool, geom [][]Point, canonical TileID, refs []Geometry) float64 {
	var positions []Position

	for _, part := range geom {
		for _, p := range part {
			positions = append(positions, ToLngLat(p, canonical))
		}
	}

	if len(positions) == 0 {
		return math.NaN()
	}

	r := NewRuler(positions[0][1])
	dist := math.Inf(1)

	for _, g := range refs {
		switch g.Type {
		case PointType:
			dist = math.Min(dist, pointSetDistance(positions, isLine, []Position{g.Point}, false, r, dist))
		case LineStringType:
			dist = math.Min(dist, pointSetDistance(positions, isLine, g.Line, true, r, dist))
		case PolygonType:
			dist = math.Min(dist, pointsToPolygonDistance(positions, isLine, g.Polygon, r, dist))
		}

		if dist == 0 {
			return 0
		}
	}

	return dist
}

func polygonDistance(geom [][]Point, canonical TileID, refs []Geometry) float64 {
	if len(geom) == 0 || len(geom[0]) == 0 {
		return math.NaN()
	}

	classified := ClassifyRings(geom, 0)
	polygons := make([]Polygon, 0, len(classified))

	for _, rings := range classified {
		polygon := make(Polygon, len(rings))

		for i, ring := range rings {
			polygon[i] = make([]Position, len(ring))
			for j, p := range ring {
				polygon[i][j] = ToLngLat(p, canonical)
			}
		}

		polygons = append(polygons, polygon)
	}

	if len(polygons) == 0 || len(polygons[0]) == 0 || len(polygons[0][0]) == 0 {
		return math.NaN()
	}

	r := NewRuler(polygons[0][0][0][1])
	dist := math.Inf(1)

	for _, g := range refs {
		for _, polygon := range polygons {
			switch g.Type {
			case PointType:
				dist = math.Min(dist, pointsToPolygonDistance([]Position{g.Point}, false, polygon, r, dist))
			case LineStringType:
				dist = math.Min(dist, pointsToPolygonDistance(g.Line, true, polygon, r, dist))
			case PolygonType:
				dist = math.Min(dist, polygonToPolygonDistance(polygon, g.Polygon, r, dist))
			}

			if dist == 0 {
				return 0
			}
		}
	}

	return dist
}
