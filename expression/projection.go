package expression

// ProjectionDefinition describes a map projection, possibly partway through
// a transition between two named projections.
type ProjectionDefinition struct {
	From       string
	To         string
	Transition float64
}

// ParseProjectionDefinition accepts a projection name, a [from, to,
// transition] array, or an object with those fields.
func ParseProjectionDefinition(v any) (*ProjectionDefinition, bool) {
	switch v := v.(type) {
	case *ProjectionDefinition:
		return v, true
	case string:
		return &ProjectionDefinition{From: v, To: v, Transition: 1}, true
	case []any:
		if len(v) != 3 {
			return nil, false
		}

		from, ok1 := v[0].(string)
		to, ok2 := v[1].(string)
		t, ok3 := v[2].(float64)

		if ok1 && ok2 && ok3 {
			return &ProjectionDefinition{From: from, To: to, Transition: t}, true
		}
	case map[string]any:
		from, ok1 := v["from"].(string)
		to, ok2 := v["to"].(string)
		t, ok3 := v["transition"].(float64)

		if ok1 && ok2 && ok3 {
			return &ProjectionDefinition{From: from, To: to, Transition: t}, true
		}
	}

	return nil, false
}

// String encodes the definition as a JSON object.
func (p *ProjectionDefinition) String() string {
	return encodeJSON(p)
}

// InterpolateProjection returns the transition at t from the projection
// that from settles on to the one that to settles on.
func InterpolateProjection(from, to *ProjectionDefinition, t float64) *ProjectionDefinition {
	return &ProjectionDefinition{From: from.To, To: to.To, Transition: t}
}
