package expression

import (
	"bytes"
	"io"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/windstyle/color"
)

// Property types recognized by [PropertySpec.PropertyType].
const (
	DataDriven           = "data-driven"
	CrossFadedDataDriven = "cross-faded-data-driven"
	DataConstant         = "data-constant"
)

// ExpressionSpec lists what a property's expressions may depend on.
type ExpressionSpec struct {
	// Parameters names the inputs an expression may read, such as "zoom"
	// or "feature".
	Parameters   []string `json:"parameters"   yaml:"parameters"`
	Interpolated bool     `json:"interpolated" yaml:"interpolated"`
}

// PropertySpec describes one style property: its value type, default, and
// which kinds of expression it accepts.
type PropertySpec struct {
	Default    any             `json:"default,omitempty"       yaml:"default,omitempty"`
	Minimum    *float64        `json:"minimum,omitempty"       yaml:"minimum,omitempty"`
	Maximum    *float64        `json:"maximum,omitempty"       yaml:"maximum,omitempty"`
	Expression *ExpressionSpec `json:"expression,omitempty"    yaml:"expression,omitempty"`

	// Type is a value type name ("color", "number", "enum", "array", ...).
	Type string `json:"type" yaml:"type"`

	// Value is the item type of an array property.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	PropertyType string `json:"property-type,omitempty" yaml:"property-type,omitempty"`

	// Values lists the members of an enum property.
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`

	// Length fixes the length of an array property; 0 leaves it open.
	Length     int  `json:"length,omitempty"     yaml:"length,omitempty"`
	Transition bool `json:"transition,omitempty" yaml:"transition,omitempty"`
}

// LoadSpec reads a property spec written in YAML or JSON.
func LoadSpec(r io.Reader) (*PropertySpec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	var spec PropertySpec
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&spec); err != nil {
		return nil, ErrSpec.Wrap(err)
	}

	if spec.Type == "" {
		return nil, ErrSpec.Wrap(NewError("missing type"))
	}

	spec.Default = Normalize(spec.Default)

	return &spec, nil
}

func (s *PropertySpec) supportsPropertyExpression() bool {
	return s.PropertyType == DataDriven || s.PropertyType == CrossFadedDataDriven
}

func (s *PropertySpec) supportsZoomExpression() bool {
	return s.Expression != nil && slices.Contains(s.Expression.Parameters, "zoom")
}

func (s *PropertySpec) supportsInterpolation() bool {
	return s.Expression != nil && s.Expression.Interpolated
}

var specTypes = map[string]Type{
	"color":                          ColorType,
	"string":                         StringType,
	"number":                         NumberType,
	"enum":                           StringType,
	"boolean":                        BooleanType,
	"formatted":                      FormattedType,
	"padding":                        PaddingType,
	"projectionDefinition":           ProjectionDefinitionType,
	"resolvedImage":                  ResolvedImageType,
	"variableAnchorOffsetCollection": VariableAnchorOffsetType,
}

// expectedType returns the type expressions for the property must produce,
// or nil when the spec's type has no counterpart.
func (s *PropertySpec) expectedType() *Type {
	if s.Type == "array" {
		item, ok := specTypes[s.Value]
		if !ok {
			item = ValueType
		}

		if s.Length > 0 {
			return expect(ArrayN(item, s.Length))
		}

		return expect(Array(item))
	}

	if t, ok := specTypes[s.Type]; ok {
		return &t
	}

	return nil
}

// DefaultValue returns the value used in place of a missing or failed
// evaluation.
func (s *PropertySpec) DefaultValue() any {
	switch s.Type {
	case "color":
		switch d := s.Default.(type) {
		case map[string]any:
			return color.New(0, 0, 0, 0)
		case string:
			if c, ok := color.Parse(d); ok {
				return c
			}
		}

		return nil
	case "padding":
		if p, ok := ParsePadding(s.Default); ok {
			return p
		}

		return nil
	case "variableAnchorOffsetCollection":
		if c, ok := ParseVariableAnchorOffsetCollection(s.Default); ok {
			return c
		}

		return nil
	case "projectionDefinition":
		if p, ok := ParseProjectionDefinition(s.Default); ok {
			return p
		}

		return nil
	}

	return s.Default
}

// BuiltinSpecs returns the specs of the wind particle layer properties,
// keyed by property name. The specs are shared and must not be modified.
func BuiltinSpecs() map[string]*PropertySpec {
	return maps.Clone(builtinSpecs)
}

var builtinSpecs = map[string]*PropertySpec{
	"particle-color": {
		Type:    "color",
		Default: "white",
		Expression: &ExpressionSpec{
			Interpolated: true,
			Parameters:   []string{"zoom", "feature"},
		},
		PropertyType: DataDriven,
	},
	"particle-speed": {
		Type:         "number",
		Minimum:      ptr(0.0),
		Default:      0.75,
		Transition:   true,
		Expression:   &ExpressionSpec{Interpolated: true, Parameters: []string{"zoom"}},
		PropertyType: DataConstant,
	},
	"particle-size": {
		Type:         "number",
		Minimum:      ptr(0.1),
		Default:      2.0,
		Transition:   true,
		Expression:   &ExpressionSpec{Interpolated: true, Parameters: []string{"zoom"}},
		PropertyType: DataConstant,
	},
	"particle-trail": {
		Type:         "number",
		Minimum:      ptr(0.0),
		Maximum:      ptr(1.0),
		Default:      0.005,
		Transition:   true,
		Expression:   &ExpressionSpec{Interpolated: true, Parameters: []string{"zoom"}},
		PropertyType: DataConstant,
	},
}

func ptr[T any](v T) *T { return &v }
