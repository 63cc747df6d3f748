package expression

import "github.com/ardnew/windstyle/pkg/num"

// Padding is the space around the four sides of a box, ordered top, right,
// bottom, left.
type Padding struct {
	Values [4]float64
}

// ParsePadding accepts a number, which applies to every side, or an array
// of one to four numbers expanded the way CSS expands shorthand values.
func ParsePadding(v any) (*Padding, bool) {
	switch v := v.(type) {
	case *Padding:
		return v, true
	case float64:
		return &Padding{Values: [4]float64{v, v, v, v}}, true
	case []any:
		if len(v) < 1 || len(v) > 4 {
			return nil, false
		}

		n := make([]float64, len(v))

		for i, item := range v {
			f, ok := item.(float64)
			if !ok {
				return nil, false
			}

			n[i] = f
		}

		switch len(n) {
		case 1:
			return &Padding{Values: [4]float64{n[0], n[0], n[0], n[0]}}, true
		case 2:
			return &Padding{Values: [4]float64{n[0], n[1], n[0], n[1]}}, true
		case 3:
			return &Padding{Values: [4]float64{n[0], n[1], n[2], n[1]}}, true
		default:
			return &Padding{Values: [4]float64{n[0], n[1], n[2], n[3]}}, true
		}
	}

	return nil, false
}

// String encodes the four values as a JSON array.
func (p *Padding) String() string {
	return encodeJSON(floatsToAny(p.Values[:]))
}

// InterpolatePadding interpolates each side independently.
func InterpolatePadding(from, to *Padding, t float64) *Padding {
	var out Padding

	for i := range out.Values {
		out.Values[i] = num.Lerp(from.Values[i], to.Values[i], t)
	}

	return &out
}
