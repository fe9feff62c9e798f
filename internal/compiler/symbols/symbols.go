package symbols

import "fmt"

type Kind int

const (
	Const Kind = iota + 1
	Var
)

func (k Kind) String() string {
	switch k {
	case Const:
		return "const"
	case Var:
		return "var"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// FirstVarAddress is the stack slot of the first variable in a frame. Slots
// 0-2 hold the static link, dynamic link and return address.
const FirstVarAddress = 3

type Symbol struct {
	Kind    Kind
	Name    string
	Value   int // constants only
	Level   int
	Address int // variables only
}

// Table is the append-only registry of declarations made during a compile.
// It does not enforce uniqueness; callers check with Lookup first.
type Table struct {
	entries []Symbol
}

func NewTable() *Table {
	return &Table{}
}

// Declare appends a symbol and returns its index.
func (t *Table) Declare(kind Kind, name string, value, level, address int) int {
	t.entries = append(t.entries, Symbol{
		Kind:    kind,
		Name:    name,
		Value:   value,
		Level:   level,
		Address: address,
	})
	return len(t.entries) - 1
}

// Lookup returns the index of the first symbol named name, in declaration
// order.
func (t *Table) Lookup(name string) (int, bool) {
	for i, sym := range t.entries {
		if sym.Name == name {
			return i, true
		}
	}
	return -1, false
}

func (t *Table) Get(index int) Symbol {
	return t.entries[index]
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Symbols returns a copy of the table contents.
func (t *Table) Symbols() []Symbol {
	out := make([]Symbol, len(t.entries))
	copy(out, t.entries)
	return out
}
