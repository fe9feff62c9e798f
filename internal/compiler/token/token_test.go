package token

import "testing"

func TestKindOrdinals(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Odd, 1},
		{Ident, 2},
		{Number, 3},
		{Slash, 7},
		{Eq, 9},
		{Geq, 14},
		{Period, 19},
		{Becomes, 20},
		{Begin, 21},
		{Do, 26},
		{Const, 28},
		{Var, 29},
		{Write, 31},
		{Read, 32},
		{Else, 33},
	}
	for _, tt := range tests {
		if got := (Token{Kind: tt.kind}).Ordinal(); got != tt.want {
			t.Errorf("%s: expected ordinal %d, got %d", tt.kind, tt.want, got)
		}
	}
}

func TestLookupIdent(t *testing.T) {
	if k := LookupIdent("while"); k != While {
		t.Errorf("LookupIdent(while): expected While, got %s", k)
	}
	if k := LookupIdent("While"); k != Ident {
		t.Errorf("LookupIdent(While): keywords are case-sensitive, got %s", k)
	}
	if k := LookupIdent("ifel"); k != Ident {
		t.Errorf("LookupIdent(ifel): expected Ident, got %s", k)
	}
}

func TestLookupSymbol(t *testing.T) {
	for _, s := range []string{":=", "<=", ">=", "<>", "+", ";", "."} {
		if _, ok := LookupSymbol(s); !ok {
			t.Errorf("LookupSymbol(%q): expected a valid operator", s)
		}
	}
	for _, s := range []string{":", "&", "==", "=<", "!"} {
		if k, ok := LookupSymbol(s); ok {
			t.Errorf("LookupSymbol(%q): expected invalid, got %s", s, k)
		}
	}
}

func TestIsRelational(t *testing.T) {
	for _, k := range []Kind{Eq, Neq, Lss, Leq, Gtr, Geq} {
		if !k.IsRelational() {
			t.Errorf("%s should be relational", k)
		}
	}
	for _, k := range []Kind{Slash, LParen, Becomes, Odd} {
		if k.IsRelational() {
			t.Errorf("%s should not be relational", k)
		}
	}
}
