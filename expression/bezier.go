package expression

import "math"

// unitBezier is a cubic Bézier curve from (0,0) to (1,1) with control
// points (x1,y1) and (x2,y2), solved for y given x.
type unitBezier struct {
	ax, bx, cx float64
	ay, by, cy float64
}

func newUnitBezier(x1, y1, x2, y2 float64) unitBezier {
	var b unitBezier

	b.cx = 3 * x1
	b.bx = 3*(x2-x1) - b.cx
	b.ax = 1 - b.cx - b.bx

	b.cy = 3 * y1
	b.by = 3*(y2-y1) - b.cy
	b.ay = 1 - b.cy - b.by

	return b
}

func (b unitBezier) sampleX(t float64) float64 { return ((b.ax*t+b.bx)*t + b.cx) * t }

func (b unitBezier) sampleY(t float64) float64 { return ((b.ay*t+b.by)*t + b.cy) * t }

func (b unitBezier) slopeX(t float64) float64 { return (3*b.ax*t+2*b.bx)*t + b.cx }

// solveX finds t such that x(t) = x, first by Newton's method and then by
// bisection if that fails to converge.
func (b unitBezier) solveX(x, epsilon float64) float64 {
	if x < 0 {
		return 0
	}

	if x > 1 {
		return 1
	}

	t := x

	for range 8 {
		x2 := b.sampleX(t) - x
		if math.Abs(x2) < epsilon {
			return t
		}

		d := b.slopeX(t)
		if math.Abs(d) < 1e-6 {
			break
		}

		t -= x2 / d
	}

	t0, t1 := 0.0, 1.0
	t = x

	for range 20 {
		x2 := b.sampleX(t)
		if math.Abs(x2-x) < epsilon {
			break
		}

		if x > x2 {
			t0 = t
		} else {
			t1 = t
		}

		t = (t1-t0)*0.5 + t0
	}

	return t
}

func (b unitBezier) solve(x float64) float64 { return b.sampleY(b.solveX(x, 1e-6)) }
