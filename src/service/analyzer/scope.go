package analyzer

type scope struct {
	names         map[string]struct{}
	comprehension bool
}

// ScopeStack is a stack of bound-name sets, innermost last
type ScopeStack struct {
	scopes []*scope
}

// Push enters a new scope
func (s *ScopeStack) Push() {
	s.scopes = append(s.scopes, &scope{names: map[string]struct{}{}})
}

// PushComprehension enters a comprehension scope. Assignment expressions
// inside it bind in the nearest enclosing non-comprehension scope.
func (s *ScopeStack) PushComprehension() {
	s.scopes = append(s.scopes, &scope{names: map[string]struct{}{}, comprehension: true})
}

// Pop leaves the innermost scope
func (s *ScopeStack) Pop() {
	if len(s.scopes) > 0 {
		s.scopes = s.scopes[:len(s.scopes)-1]
	}
}

// Depth returns the number of open scopes
func (s *ScopeStack) Depth() int {
	return len(s.scopes)
}

// Bind adds name to the innermost scope
func (s *ScopeStack) Bind(name string) {
	if len(s.scopes) == 0 {
		s.Push()
	}
	s.scopes[len(s.scopes)-1].names[name] = struct{}{}
}

// BindOuter adds name to the innermost scope that is not a comprehension
func (s *ScopeStack) BindOuter(name string) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if !s.scopes[i].comprehension {
			s.scopes[i].names[name] = struct{}{}
			return
		}
	}
	s.Bind(name)
}

// Lookup reports whether name is bound in any open scope, innermost first
func (s *ScopeStack) Lookup(name string) bool {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if _, ok := s.scopes[i].names[name]; ok {
			return true
		}
	}
	return false
}
