package expression

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// Decode parses a wire-format expression written in YAML or JSON. Numbers
// are converted to float64, mappings to map[string]any, and sequences to
// []any. Only the first document of a stream is decoded.
//
// Unquoted scalars in JSON number syntax are numbers even without a
// fraction, so 1e3 is 1000 while "1e3" stays a string.
func Decode(data []byte) (any, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return nil, nil
	}

	var v any

	if err := yaml.NodeToValue(plainNumbers(file.Docs[0].Body), &v); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	return Normalize(v), nil
}

// exponentNumber matches numbers with an exponent, which YAML only reads
// as floats when they also have a fraction.
var exponentNumber = regexp.MustCompile(`^[-+]?(0|[1-9][0-9]*)(\.[0-9]*)?[eE][-+]?[0-9]+$`)

// plainNumbers replaces the unquoted exponent-number strings below node
// with float nodes and returns the node to decode in place of node.
func plainNumbers(node ast.Node) ast.Node {
	switch n := node.(type) {
	case *ast.StringNode:
		if n.Token == nil || n.Token.Type != token.StringType || !exponentNumber.MatchString(n.Value) {
			return n
		}

		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return n
		}

		return &ast.FloatNode{BaseNode: n.BaseNode, Token: n.Token, Value: f}

	case *ast.SequenceNode:
		for i, item := range n.Values {
			n.Values[i] = plainNumbers(item)
		}

	case *ast.MappingNode:
		for _, pair := range n.Values {
			pair.Value = plainNumbers(pair.Value)
		}

	case *ast.MappingValueNode:
		n.Value = plainNumbers(n.Value)

	case *ast.AnchorNode:
		n.Value = plainNumbers(n.Value)
	}

	return node
}

// Normalize converts decoded YAML or JSON values, and values produced by
// other Go code, into runtime value shapes.
func Normalize(v any) any {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Normalize(item)
		}

		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = Normalize(item)
		}

		return out
	}

	return v
}
