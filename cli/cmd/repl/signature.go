package repl

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/windstyle/expression"
)

// callInfo describes the operator call enclosing the cursor.
type callInfo struct {
	name     string
	argIndex int // -1 while the cursor is on the operator name
	inCall   bool
}

// frame is one open array or object while scanning an expression.
type frame struct {
	head   strings.Builder // text of the first array element
	commas int
	array  bool
	nested bool // the first element contains a nested value
}

// detectCall scans input up to cursor and reports the innermost array whose
// first element names a builtin operator. Brackets and commas inside quoted
// strings are ignored.
func detectCall(input string, cursor int) callInfo {
	if cursor > len(input) {
		cursor = len(input)
	}

	var (
		stack   []*frame
		quote   rune
		escaped bool
	)

	top := func() *frame {
		if len(stack) == 0 {
			return nil
		}

		return stack[len(stack)-1]
	}

	for _, r := range input[:cursor] {
		f := top()

		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true

				continue
			case r == quote:
				quote = 0
			}

			if f != nil && f.array && f.commas == 0 {
				f.head.WriteRune(r)
			}

			continue
		}

		switch r {
		case '"', '\'':
			quote = r

		case '[', '{':
			if f != nil && f.commas == 0 {
				f.nested = true
			}

			stack = append(stack, &frame{array: r == '['})

			continue

		case ']', '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

			continue

		case ',':
			if f != nil {
				f.commas++
			}

			continue
		}

		if f != nil && f.array && f.commas == 0 {
			f.head.WriteRune(r)
		}
	}

	ops := expression.Operators()

	for _, f := range slices.Backward(stack) {
		if !f.array || f.nested {
			continue
		}

		name := strings.Trim(strings.TrimSpace(f.head.String()), `"'`)
		if _, ok := slices.BinarySearch(ops, name); ok {
			return callInfo{name: name, argIndex: f.commas - 1, inCall: true}
		}
	}

	return callInfo{argIndex: -1}
}

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("3")).
				Bold(true)
)

// overload is one parsed signature of an operator.
type overload struct {
	result   string
	params   []string
	variadic bool
}

// parseSignature splits a signature of the form "(a, b) -> r" or
// "(a...) -> r". Commas inside type parameters such as "array<number, 4>"
// do not separate parameters.
func parseSignature(sig string) overload {
	params, result, _ := strings.Cut(sig, " -> ")
	params = strings.TrimSuffix(strings.TrimPrefix(params, "("), ")")

	o := overload{result: result}

	if rest, ok := strings.CutSuffix(params, "..."); ok {
		o.params, o.variadic = []string{rest}, true

		return o
	}

	depth, start := 0, 0

	for i, r := range params {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				o.params = append(o.params, strings.TrimSpace(params[start:i]))
				start = i + 1
			}
		}
	}

	if last := strings.TrimSpace(params[start:]); last != "" {
		o.params = append(o.params, last)
	}

	return o
}

// fits reports whether an argument at argIndex belongs to the overload.
func (o overload) fits(argIndex int) bool {
	return o.variadic || argIndex < len(o.params)
}

// param returns the index of the parameter receiving argument argIndex.
func (o overload) param(argIndex int) int {
	if o.variadic && argIndex >= 0 {
		return 0
	}

	return argIndex
}

// selectOverload returns the first overload accepting an argument at
// argIndex, or the first overload when none does.
func selectOverload(signatures []string, argIndex int) (overload, bool) {
	if len(signatures) == 0 {
		return overload{}, false
	}

	overloads := make([]overload, len(signatures))
	for i, s := range signatures {
		overloads[i] = parseSignature(s)
	}

	for _, o := range overloads {
		if o.fits(argIndex) {
			return o, true
		}
	}

	return overloads[0], true
}

// renderSignatureHint renders the operator name and the overload fitting
// the argument under the cursor, with that parameter highlighted. Special
// forms have no signatures and render as the name alone.
func renderSignatureHint(name string, signatures []string, argIndex int) string {
	o, ok := selectOverload(signatures, argIndex)
	if !ok {
		return signatureNameStyle.Render(name)
	}

	current := o.param(argIndex)

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range o.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if o.variadic {
			p += "..."
		}

		if i == current {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(") -> " + o.result))

	if n := len(signatures) - 1; n > 0 {
		b.WriteString(hintStyle.Render("  +" + strconv.Itoa(n)))
	}

	return b.String()
}
