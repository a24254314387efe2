package interp

import "github.com/nuwa-ai/nuwascript/internal/value"

// Scope is the flat, non-nested variable environment for one execution:
// NuwaScript has no closures or lexical blocks, so a single map suffices
// for the lifetime of one Execute call.
type Scope struct {
	vars map[string]value.Value
}

// NewScope returns an empty scope; use NewScopeFrom for a host-seeded one.
func NewScope() *Scope {
	return &Scope{vars: map[string]value.Value{}}
}

// NewScopeFrom returns a scope seeded with a copy of seed.
func NewScopeFrom(seed map[string]value.Value) *Scope {
	s := NewScope()
	for k, v := range seed {
		s.vars[k] = v
	}
	return s
}

// Get returns the bound value and whether name is bound.
func (s *Scope) Get(name string) (value.Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Set binds name to v, overwriting any prior binding.
func (s *Scope) Set(name string, v value.Value) {
	s.vars[name] = v
}

// Delete removes name entirely, as opposed to binding it to Null.
func (s *Scope) Delete(name string) {
	delete(s.vars, name)
}

// Snapshot captures the current binding of name so a FOR loop can restore
// it on exit: (value, present). present is false if name was unbound.
func (s *Scope) Snapshot(name string) (value.Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Restore reinstates a binding captured by Snapshot: if present is false
// the name is deleted rather than bound to its zero value, so a
// previously-absent iterator variable stays absent after a FOR loop ends.
func (s *Scope) Restore(name string, v value.Value, present bool) {
	if present {
		s.vars[name] = v
	} else {
		delete(s.vars, name)
	}
}

// All returns a copy of the scope's bindings, used when Execute returns the
// final scope to the host.
func (s *Scope) All() map[string]value.Value {
	out := make(map[string]value.Value, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}
