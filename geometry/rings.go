package geometry

import (
	"cmp"
	"math"
)

// SignedArea returns twice the signed area of a ring. Exterior rings of
// vector tiles wind clockwise and have positive area.
func SignedArea(ring []Point) float64 {
	var sum float64

	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		p1, p2 := ring[i], ring[j]
		sum += (p2.X - p1.X) * (p1.Y + p2.Y)
	}

	return sum
}

// ClassifyRings groups rings into polygons. The winding of the first
// non-degenerate ring marks outer rings; each following ring with the same
// winding starts a new polygon, and rings with the opposite winding are
// holes of the current polygon. Zero-area rings are dropped.
//
// When maxRings > 1, polygons with more rings are trimmed to the outer ring
// plus the maxRings-1 holes with the largest area.
func ClassifyRings(rings [][]Point, maxRings int) [][][]Point {
	if len(rings) <= 1 {
		return [][][]Point{rings}
	}

	type areaRing struct {
		ring []Point
		area float64
	}

	var (
		polygons [][]areaRing
		polygon  []areaRing
		ccw      bool
		seen     bool
	)

	for _, ring := range rings {
		area := SignedArea(ring)
		if area == 0 {
			continue
		}

		if !seen {
			ccw, seen = area < 0, true
		}

		if ccw == (area < 0) {
			if polygon != nil {
				polygons = append(polygons, polygon)
			}

			polygon = []areaRing{{ring, math.Abs(area)}}
		} else {
			polygon = append(polygon, areaRing{ring, math.Abs(area)})
		}
	}

	if polygon != nil {
		polygons = append(polygons, polygon)
	}

	out := make([][][]Point, len(polygons))

	for i, p := range polygons {
		if maxRings > 1 && len(p) > maxRings {
			Quickselect(p, maxRings, 1, len(p)-1, func(a, b areaRing) int {
				return cmp.Compare(b.area, a.area)
			})
			p = p[:maxRings]
		}

		out[i] = make([][]Point, len(p))
		for j, r := range p {
			out[i][j] = r.ring
		}
	}

	return out
}

// HasMultipleOuterRings reports whether more than one ring shares the
// winding of the first non-degenerate ring.
func HasMultipleOuterRings(rings [][]Point) bool {
	var direction, seen bool

	for _, ring := range rings {
		area := SignedArea(ring)
		if area == 0 {
			continue
		}

		if !seen {
			direction, seen = area < 0, true
		} else if direction == (area < 0) {
			return true
		}
	}

	return false
}
