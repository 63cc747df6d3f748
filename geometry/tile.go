package geometry

import "math"

// Extent is the number of tile-local units along one edge of a tile.
const Extent = 8192

// MercatorX converts longitude to a unit web-mercator x coordinate.
func MercatorX(lng float64) float64 { return (180 + lng) / 360 }

// MercatorY converts latitude to a unit web-mercator y coordinate.
func MercatorY(lat float64) float64 {
	return (180 - (180 / math.Pi * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360)))) / 360
}

// LngFromMercatorX is the inverse of [MercatorX].
func LngFromMercatorX(x float64) float64 { return x*360 - 180 }

// LatFromMercatorY is the inverse of [MercatorY].
func LatFromMercatorY(y float64) float64 {
	return 360/math.Pi*math.Atan(math.Exp((180-y*360)*math.Pi/180)) - 90
}

// ToTile projects a longitude/latitude to integer world tile units at the
// zoom of canonical.
func ToTile(p Position, canonical TileID) Position {
	n := math.Exp2(float64(canonical.Z)) * Extent

	return Position{
		math.Floor(MercatorX(p[0])*n + 0.5),
		math.Floor(MercatorY(p[1])*n + 0.5),
	}
}

// ToLngLat converts a tile-local point of canonical to longitude/latitude.
func ToLngLat(p Point, canonical TileID) Position {
	n := math.Exp2(float64(canonical.Z))
	x := (p.X/Extent + float64(canonical.X)) / n
	y := (p.Y/Extent + float64(canonical.Y)) / n

	return Position{LngFromMercatorX(x), LatFromMercatorY(y)}
}

func projectPolygon(polygon Polygon, bbox *BBox, canonical TileID) Polygon {
	out := make(Polygon, len(polygon))

	for i, ring := range polygon {
		out[i] = make([]Position, len(ring))

		for j, p := range ring {
			q := ToTile(p, canonical)
			bbox.Extend(q)
			out[i][j] = q
		}
	}

	return out
}

func projectPolygons(polygons []Polygon, bbox *BBox, canonical TileID) []Polygon {
	out := make([]Polygon, len(polygons))
	for i, p := range polygons {
		out[i] = projectPolygon(p, bbox, canonical)
	}

	return out
}

// wrapPoint shifts p by one world width when that moves it closer to the
// polygon box, so that features near the antimeridian compare against the
// same world copy as the polygon.
func wrapPoint(p *Position, bbox *BBox, polyBBox BBox, worldSize float64) {
	if p[0] < polyBBox[0] || p[0] > polyBBox[2] {
		half := worldSize * 0.5

		var shift float64

		switch {
		case p[0]-polyBBox[0] > half:
			shift = -worldSize
		case polyBBox[0]-p[0] > half:
			shift = worldSize
		}

		if shift == 0 {
			switch {
			case p[0]-polyBBox[2] > half:
				shift = -worldSize
			case polyBBox[2]-p[0] > half:
				shift = worldSize
			}
		}

		p[0] += shift
	}

	bbox.Extend(*p)
}

func worldPoints(geom [][]Point, bbox *BBox, polyBBox BBox, canonical TileID) []Position {
	worldSize := math.Exp2(float64(canonical.Z)) * Extent
	dx, dy := float64(canonical.X)*Extent, float64(canonical.Y)*Extent

	var out []Position

	for _, points := range geom {
		for _, pt := range points {
			p := Position{pt.X + dx, pt.Y + dy}
			wrapPoint(&p, bbox, polyBBox, worldSize)
			out = append(out, p)
		}
	}

	return out
}

func worldLines(geom [][]Point, bbox *BBox, polyBBox BBox, canonical TileID) [][]Position {
	worldSize := math.Exp2(float64(canonical.Z)) * Extent
	dx, dy := float64(canonical.X)*Extent, float64(canonical.Y)*Extent

	out := make([][]Position, len(geom))

	for i, line := range geom {
		out[i] = make([]Position, len(line))

		for j, pt := range line {
			p := Position{pt.X + dx, pt.Y + dy}
			bbox.Extend(p)
			out[i][j] = p
		}
	}

	if bbox[2]-bbox[0] <= worldSize/2 {
		*bbox = EmptyBBox()

		for _, line := range out {
			for j := range line {
				wrapPoint(&line[j], bbox, polyBBox, worldSize)
			}
		}
	}

	return out
}
