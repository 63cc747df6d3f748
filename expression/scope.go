package expression

// binding associates a variable name with the expression it names.
type binding struct {
	name string
	expr Expression
}

// Scope is an immutable frame of "let" bindings linked to its enclosing
// frame. The zero value is an empty root scope.
type Scope struct {
	parent   *Scope
	bindings map[string]Expression
}

// concat returns a child scope holding bindings.
func (s *Scope) concat(bindings []binding) *Scope {
	child := &Scope{parent: s, bindings: make(map[string]Expression, len(bindings))}
	for _, b := range bindings {
		child.bindings[b.name] = b.expr
	}

	return child
}

// get returns the expression bound to name in the nearest enclosing frame.
func (s *Scope) get(name string) (Expression, bool) {
	for f := s; f != nil; f = f.parent {
		if e, ok := f.bindings[name]; ok {
			return e, true
		}
	}

	return nil, false
}
