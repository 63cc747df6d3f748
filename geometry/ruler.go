package geometry

import "math"

// WGS84 ellipsoid.
const (
	equatorialRadius = 6378.137 // km
	flattening       = 1 / 298.257223563
	e2               = flattening * (2 - flattening)
	rad              = math.Pi / 180
)

// Ruler approximates geodesic distances near a reference latitude using a
// locally flat (equirectangular) projection. Distances are in meters.
type Ruler struct {
	kx, ky float64
}

// NewRuler returns a ruler tuned to latitude lat.
func NewRuler(lat float64) Ruler {
	m := rad * equatorialRadius * 1000
	coslat := math.Cos(lat * rad)
	w2 := 1 / (1 - e2*(1-coslat*coslat))
	w := math.Sqrt(w2)

	return Ruler{
		kx: m * w * coslat,       // normal radius of curvature
		ky: m * w * w2 * (1 - e2), // meridional radius of curvature
	}
}

// Distance returns the distance between two longitude/latitude positions.
func (r Ruler) Distance(a, b Position) float64 {
	dx := wrapDegrees(a[0]-b[0]) * r.kx
	dy := (a[1] - b[1]) * r.ky

	return math.Sqrt(dx*dx + dy*dy)
}

// PointOnLine returns the point of line nearest to p, the index of the
// segment containing it, and its position along that segment in [0, 1].
func (r Ruler) PointOnLine(line []Position, p Position) (Position, int, float64) {
	minDist := math.Inf(1)
	best := Position{math.NaN(), math.NaN()}

	var (
		index int
		along float64
	)

	for i := 0; i < len(line)-1; i++ {
		x, y := line[i][0], line[i][1]
		dx := wrapDegrees(line[i+1][0]-x) * r.kx
		dy := (line[i+1][1] - y) * r.ky

		var t float64

		if dx != 0 || dy != 0 {
			t = (wrapDegrees(p[0]-x)*r.kx*dx + (p[1]-y)*r.ky*dy) / (dx*dx + dy*dy)

			if t > 1 {
				x, y = line[i+1][0], line[i+1][1]
			} else if t > 0 {
				x += dx / r.kx * t
				y += dy / r.ky * t
			}
		}

		dx = wrapDegrees(p[0]-x) * r.kx
		dy = (p[1] - y) * r.ky

		if d := dx*dx + dy*dy; d < minDist {
			minDist = d
			best = Position{x, y}
			index = i
			along = t
		}
	}

	return best, index, math.Max(0, math.Min(1, along))
}

func wrapDegrees(deg float64) float64 {
	for deg < -180 {
		deg += 360
	}

	for deg > 180 {
		deg -= 360
	}

	return deg
}
