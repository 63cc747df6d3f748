package expression

import (
	"strconv"

	"github.com/ardnew/windstyle/pkg/num"
)

// anchors are the label anchor positions accepted by
// [VariableAnchorOffsetCollection].
var anchors = map[string]bool{
	"center":       true,
	"left":         true,
	"right":        true,
	"top":          true,
	"bottom":       true,
	"top-left":     true,
	"top-right":    true,
	"bottom-left":  true,
	"bottom-right": true,
}

// AnchorOffset pairs a label anchor with an [x, y] offset.
type AnchorOffset struct {
	Anchor string
	Offset [2]float64
}

// VariableAnchorOffsetCollection is an ordered list of candidate anchors,
// each with its own offset.
type VariableAnchorOffsetCollection struct {
	Values []AnchorOffset
}

// ParseVariableAnchorOffsetCollection accepts a non-empty flat array of
// alternating anchor names and two-number offsets.
func ParseVariableAnchorOffsetCollection(v any) (*VariableAnchorOffsetCollection, bool) {
	if c, ok := v.(*VariableAnchorOffsetCollection); ok {
		return c, true
	}

	a, ok := v.([]any)
	if !ok || len(a) < 1 || len(a)%2 != 0 {
		return nil, false
	}

	out := &VariableAnchorOffsetCollection{Values: make([]AnchorOffset, 0, len(a)/2)}

	for i := 0; i < len(a); i += 2 {
		anchor, ok := a[i].(string)
		if !ok || !anchors[anchor] {
			return nil, false
		}

		offset, ok := a[i+1].([]any)
		if !ok || len(offset) != 2 {
			return nil, false
		}

		x, okx := offset[0].(float64)
		y, oky := offset[1].(float64)

		if !okx || !oky {
			return nil, false
		}

		out.Values = append(out.Values, AnchorOffset{anchor, [2]float64{x, y}})
	}

	return out, true
}

// values returns the collection in its flat wire form.
func (c *VariableAnchorOffsetCollection) values() []any {
	out := make([]any, 0, 2*len(c.Values))
	for _, v := range c.Values {
		out = append(out, v.Anchor, []any{v.Offset[0], v.Offset[1]})
	}

	return out
}

// String encodes the collection in its flat wire form as JSON.
func (c *VariableAnchorOffsetCollection) String() string {
	return encodeJSON(c.values())
}

// InterpolateVariableAnchorOffset interpolates the offsets of two
// collections that list the same anchors in the same order.
func InterpolateVariableAnchorOffset(
	from, to *VariableAnchorOffsetCollection,
	t float64,
) (*VariableAnchorOffsetCollection, error) {
	if len(from.Values) != len(to.Values) {
		return nil, NewRuntimeError(
			"Cannot interpolate values of different length. from: " +
				from.String() + ", to: " + to.String(),
		)
	}

	out := &VariableAnchorOffsetCollection{Values: make([]AnchorOffset, len(from.Values))}

	for i, f := range from.Values {
		g := to.Values[i]
		if f.Anchor != g.Anchor {
			idx := strconv.Itoa(2 * i)

			return nil, NewRuntimeError(
				"Cannot interpolate values containing mismatched anchors. from[" +
					idx + "]: " + f.Anchor + ", to[" + idx + "]: " + g.Anchor,
			)
		}

		out.Values[i] = AnchorOffset{
			Anchor: f.Anchor,
			Offset: [2]float64{
				num.Lerp(f.Offset[0], g.Offset[0], t),
				num.Lerp(f.Offset[1], g.Offset[1], t),
			},
		}
	}

	return out, nil
}
