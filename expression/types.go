package expression

import "strconv"

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

// Kind identifies the category of a [Type].
type Kind int

// Type kinds.
const (
	KindNull                 Kind = iota // null
	KindNumber                           // number
	KindString                           // string
	KindBoolean                          // boolean
	KindColor                            // color
	KindProjectionDefinition             // projectionDefinition
	KindObject                           // object
	KindValue                            // value
	KindError                            // error
	KindCollator                         // collator
	KindFormatted                        // formatted
	KindPadding                          // padding
	KindResolvedImage                    // resolvedImage
	KindVariableAnchorOffset             // variableAnchorOffsetCollection
	KindArray                            // array
)

// Type is the static type of an expression or value.
//
// Array types carry an item type and, when HasN is set, a fixed length N.
type Type struct {
	Item *Type
	Kind Kind
	N    int
	HasN bool
}

// Singleton types for every non-array kind.
var (
	NullType                 = Type{Kind: KindNull}
	NumberType               = Type{Kind: KindNumber}
	StringType               = Type{Kind: KindString}
	BooleanType              = Type{Kind: KindBoolean}
	ColorType                = Type{Kind: KindColor}
	ProjectionDefinitionType = Type{Kind: KindProjectionDefinition}
	ObjectType               = Type{Kind: KindObject}
	ValueType                = Type{Kind: KindValue}
	ErrorType                = Type{Kind: KindError}
	CollatorType             = Type{Kind: KindCollator}
	FormattedType            = Type{Kind: KindFormatted}
	PaddingType              = Type{Kind: KindPadding}
	ResolvedImageType        = Type{Kind: KindResolvedImage}
	VariableAnchorOffsetType = Type{Kind: KindVariableAnchorOffset}
)

// Array returns the type of arrays of item with unconstrained length.
func Array(item Type) Type {
	return Type{Kind: KindArray, Item: &item}
}

// ArrayN returns the type of arrays of item with exactly n elements.
func ArrayN(item Type, n int) Type {
	return Type{Kind: KindArray, Item: &item, N: n, HasN: true}
}

func (t Type) String() string {
	if t.Kind != KindArray {
		return t.Kind.String()
	}

	item := t.item()

	switch {
	case t.HasN:
		return "array<" + item.String() + ", " + strconv.Itoa(t.N) + ">"
	case item.Kind == KindValue:
		return "array"
	default:
		return "array<" + item.String() + ">"
	}
}

// item returns the array item type, treating a missing item as value.
func (t Type) item() Type {
	if t.Item == nil {
		return ValueType
	}

	return *t.Item
}

// Equal reports whether t and u describe the same type.
func (t Type) Equal(u Type) bool {
	if t.Kind != u.Kind {
		return false
	}

	if t.Kind != KindArray {
		return true
	}

	return t.HasN == u.HasN && t.N == u.N && t.item().Equal(u.item())
}

// valueMembers lists the types a value of type "value" may hold at runtime.
var valueMembers = []Type{
	NullType,
	NumberType,
	StringType,
	BooleanType,
	ColorType,
	ProjectionDefinitionType,
	FormattedType,
	ObjectType,
	Array(ValueType),
	PaddingType,
	ResolvedImageType,
	VariableAnchorOffsetType,
}

// IsSubtype returns an empty string if t may be used where expected is
// required, or a message describing the mismatch.
//
// The error type is a subtype of every type and value is a supertype of
// every member type. Arrays match when their item types match and either
// expected has no fixed length or both lengths agree.
func IsSubtype(expected, t Type) string {
	switch {
	case t.Kind == KindError:
		return ""
	case expected.Kind == KindArray:
		if t.Kind == KindArray &&
			((t.HasN && t.N == 0 && t.item().Kind == KindValue) ||
				IsSubtype(expected.item(), t.item()) == "") &&
			(!expected.HasN || (t.HasN && expected.N == t.N)) {
			return ""
		}
	case expected.Kind == t.Kind:
		return ""
	case expected.Kind == KindValue:
		for _, member := range valueMembers {
			if IsSubtype(member, t) == "" {
				return ""
			}
		}
	}

	return "Expected " + expected.String() + " but found " + t.String() + " instead."
}

// isValidType reports whether t has the same kind as any of allowed.
func isValidType(t Type, allowed ...Type) bool {
	for _, a := range allowed {
		if a.Kind == t.Kind {
			return true
		}
	}

	return false
}

// verifyType reports whether provided has the same kind as sample. Arrays
// additionally require matching item kinds and a fixed provided length.
func verifyType(provided, sample Type) bool {
	if provided.Kind == KindArray && sample.Kind == KindArray {
		return provided.item().Kind == sample.item().Kind && provided.HasN
	}

	return provided.Kind == sample.Kind
}
