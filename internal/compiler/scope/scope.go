package scope

import (
	"errors"
	"fmt"

	"github.com/plzero/plc/internal/compiler/symbols"
)

var ErrDuplicate = errors.New("symbol already declared in this scope")

// Scope is one lexical level's view over the shared symbol table. Entries
// declared by a scope are the table rows from start onward whose Level
// matches the scope's.
type Scope struct {
	table *symbols.Table
	Outer *Scope
	Name  string
	Level int

	start   int
	numVars int
}

// NewScope opens a scope one level below outer, or the level 0 scope when
// outer is nil.
func NewScope(table *symbols.Table, outer *Scope, name string) *Scope {
	s := &Scope{table: table, Outer: outer, Name: name, start: table.Len()}
	if outer != nil {
		s.Level = outer.Level + 1
	}
	return s
}

// Define declares name at this level. Variables get the next free frame slot;
// the value of a variable is ignored.
func (s *Scope) Define(kind symbols.Kind, name string, value int) (int, error) {
	if _, ok := s.LookupCurrentScope(name); ok {
		return -1, fmt.Errorf("%w: %q", ErrDuplicate, name)
	}

	address := 0
	if kind == symbols.Var {
		address = symbols.FirstVarAddress + s.numVars
		s.numVars++
		value = 0
	}
	return s.table.Declare(kind, name, value, s.Level, address), nil
}

// NumVars is the number of variables declared at this level so far.
func (s *Scope) NumVars() int {
	return s.numVars
}

// FrameSize is the number of stack slots an activation of this scope needs.
func (s *Scope) FrameSize() int {
	return symbols.FirstVarAddress + s.numVars
}

// Lookup resolves name from this scope outward. The innermost declaration
// wins. The returned level difference is the number of static links the VM
// walks to reach the symbol's frame.
func (s *Scope) Lookup(name string) (symbols.Symbol, int, bool) {
	limit := s.table.Len()
	for sc := s; sc != nil; sc = sc.Outer {
		if i, ok := sc.find(name, limit); ok {
			sym := s.table.Get(i)
			return sym, s.Level - sym.Level, true
		}
		limit = sc.start
	}
	return symbols.Symbol{}, 0, false
}

// LookupCurrentScope checks only this level.
func (s *Scope) LookupCurrentScope(name string) (symbols.Symbol, bool) {
	if i, ok := s.find(name, s.table.Len()); ok {
		return s.table.Get(i), true
	}
	return symbols.Symbol{}, false
}

func (s *Scope) find(name string, limit int) (int, bool) {
	for i := limit - 1; i >= s.start; i-- {
		sym := s.table.Get(i)
		if sym.Level == s.Level && sym.Name == name {
			return i, true
		}
	}
	return -1, false
}
