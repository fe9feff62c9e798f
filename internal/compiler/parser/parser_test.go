package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/plzero/plc/internal/compiler/emitter"
	"github.com/plzero/plc/internal/compiler/lexer"
	"github.com/plzero/plc/internal/compiler/symbols"
)

// --- Test Helper Functions ---

func newTestParser(t *testing.T, input string, capacity int) *Parser {
	t.Helper()
	toks, diags := lexer.Scan(input, false)
	if len(diags) != 0 {
		t.Fatalf("unexpected lexical diagnostics: %v", diags)
	}
	return NewParser(toks, capacity)
}

// checkParserErrors fails the test if ParseProgram returned an error.
func checkParserErrors(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		return
	}
	t.Fatalf("parser error: %v", err)
}

func in(op emitter.Opcode, l, m int) emitter.Instruction {
	return emitter.Instruction{Op: op, L: l, M: m}
}

func checkCode(t *testing.T, got, want []emitter.Instruction) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("expected %d instructions, got %d", len(want), len(got))
	}
	for i := 0; i < len(got) && i < len(want); i++ {
		if got[i] != want[i] {
			t.Errorf("instruction %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

// --- Code Generation ---

func TestConstAndAssignment(t *testing.T) {
	p := newTestParser(t, "const a = 5; var b; begin b := a + 1 end.", 0)
	checkParserErrors(t, p.ParseProgram())

	wantSyms := []symbols.Symbol{
		{Kind: symbols.Const, Name: "a", Value: 5, Level: 0, Address: 0},
		{Kind: symbols.Var, Name: "b", Value: 0, Level: 0, Address: 3},
	}
	if got := p.Symbols(); !reflect.DeepEqual(got, wantSyms) {
		t.Errorf("symbols: expected %+v, got %+v", wantSyms, got)
	}

	checkCode(t, p.Code(), []emitter.Instruction{
		in(emitter.JMP, 0, 3),
		in(emitter.INC, 0, 4),
		in(emitter.LIT, 0, 5),
		in(emitter.LIT, 0, 1),
		in(emitter.OPR, 0, emitter.OprADD),
		in(emitter.STO, 0, 3),
		in(emitter.SYS, 0, emitter.SysHalt),
	})
}

func TestEmptyProgram(t *testing.T) {
	p := newTestParser(t, ".", 0)
	checkParserErrors(t, p.ParseProgram())
	checkCode(t, p.Code(), []emitter.Instruction{
		in(emitter.JMP, 0, 3),
		in(emitter.INC, 0, 3),
		in(emitter.SYS, 0, emitter.SysHalt),
	})
}

func TestControlFlow(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []emitter.Instruction
	}{
		{
			name:  "while loop",
			input: "var x; while x > 0 do x := x - 1.",
			want: []emitter.Instruction{
				in(emitter.JMP, 0, 3),
				in(emitter.INC, 0, 4),
				in(emitter.LOD, 0, 3), // loop start, address 6
				in(emitter.LIT, 0, 0),
				in(emitter.OPR, 0, emitter.OprGTR),
				in(emitter.JPC, 0, 33),
				in(emitter.LOD, 0, 3),
				in(emitter.LIT, 0, 1),
				in(emitter.OPR, 0, emitter.OprSUB),
				in(emitter.STO, 0, 3),
				in(emitter.JMP, 0, 6),
				in(emitter.SYS, 0, emitter.SysHalt), // address 33
			},
		},
		{
			name:  "if then",
			input: "var x; begin read x; if x = 1 then write x; write 0 end.",
			want: []emitter.Instruction{
				in(emitter.JMP, 0, 3),
				in(emitter.INC, 0, 4),
				in(emitter.SYS, 0, emitter.SysRead),
				in(emitter.STO, 0, 3),
				in(emitter.LOD, 0, 3),
				in(emitter.LIT, 0, 1),
				in(emitter.OPR, 0, emitter.OprEQL),
				in(emitter.JPC, 0, 30),
				in(emitter.LOD, 0, 3),
				in(emitter.SYS, 0, emitter.SysWrite),
				in(emitter.LIT, 0, 0), // address 30
				in(emitter.SYS, 0, emitter.SysWrite),
				in(emitter.SYS, 0, emitter.SysHalt),
			},
		},
		{
			name:  "if nested in while",
			input: "var i; begin i := 0; while i < 3 do begin if i = 1 then write i; i := i + 1 end end.",
			want: []emitter.Instruction{
				in(emitter.JMP, 0, 3),
				in(emitter.INC, 0, 4),
				in(emitter.LIT, 0, 0),
				in(emitter.STO, 0, 3),
				in(emitter.LOD, 0, 3), // address 12
				in(emitter.LIT, 0, 3),
				in(emitter.OPR, 0, emitter.OprLSS),
				in(emitter.JPC, 0, 57),
				in(emitter.LOD, 0, 3),
				in(emitter.LIT, 0, 1),
				in(emitter.OPR, 0, emitter.OprEQL),
				in(emitter.JPC, 0, 42),
				in(emitter.LOD, 0, 3),
				in(emitter.SYS, 0, emitter.SysWrite),
				in(emitter.LOD, 0, 3), // address 42
				in(emitter.LIT, 0, 1),
				in(emitter.OPR, 0, emitter.OprADD),
				in(emitter.STO, 0, 3),
				in(emitter.JMP, 0, 12),
				in(emitter.SYS, 0, emitter.SysHalt), // address 57
			},
		},
		{
			name:  "odd condition",
			input: "var n; if odd n then n := n / 2.",
			want: []emitter.Instruction{
				in(emitter.JMP, 0, 3),
				in(emitter.INC, 0, 4),
				in(emitter.LOD, 0, 3),
				in(emitter.OPR, 0, emitter.OprODD),
				in(emitter.JPC, 0, 27),
				in(emitter.LOD, 0, 3),
				in(emitter.LIT, 0, 2),
				in(emitter.OPR, 0, emitter.OprDIV),
				in(emitter.STO, 0, 3),
				in(emitter.SYS, 0, emitter.SysHalt),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(t, tt.input, 0)
			checkParserErrors(t, p.ParseProgram())
			checkCode(t, p.Code(), tt.want)
		})
	}
}

func TestExpressionPrecedence(t *testing.T) {
	p := newTestParser(t, "var r; r := 8 - 2 - 1 * (3 + 4) / 7.", 0)
	checkParserErrors(t, p.ParseProgram())
	checkCode(t, p.Code(), []emitter.Instruction{
		in(emitter.JMP, 0, 3),
		in(emitter.INC, 0, 4),
		in(emitter.LIT, 0, 8),
		in(emitter.LIT, 0, 2),
		in(emitter.OPR, 0, emitter.OprSUB),
		in(emitter.LIT, 0, 1),
		in(emitter.LIT, 0, 3),
		in(emitter.LIT, 0, 4),
		in(emitter.OPR, 0, emitter.OprADD),
		in(emitter.OPR, 0, emitter.OprMUL),
		in(emitter.LIT, 0, 7),
		in(emitter.OPR, 0, emitter.OprDIV),
		in(emitter.OPR, 0, emitter.OprSUB),
		in(emitter.STO, 0, 3),
		in(emitter.SYS, 0, emitter.SysHalt),
	})
}

func TestRelationalOperators(t *testing.T) {
	ops := map[string]int{
		"=":  emitter.OprEQL,
		"<>": emitter.OprNEQ,
		"<":  emitter.OprLSS,
		"<=": emitter.OprLEQ,
		">":  emitter.OprGTR,
		">=": emitter.OprGEQ,
	}
	for op, want := range ops {
		t.Run(op, func(t *testing.T) {
			p := newTestParser(t, "var x; if x "+op+" 1 then x := 0.", 0)
			checkParserErrors(t, p.ParseProgram())
			got := p.Code()[4]
			if got != in(emitter.OPR, 0, want) {
				t.Errorf("expected OPR 0 %d, got %s", want, got)
			}
		})
	}
}

func TestJumpTargetsArePatched(t *testing.T) {
	src := `var a, b;
begin
  read a;
  while a > 0 do
  begin
    if odd a then b := b + a;
    if a > 10 then while b > 100 do b := b - 100;
    a := a - 1
  end;
  write b
end.`
	p := newTestParser(t, src, 0)
	checkParserErrors(t, p.ParseProgram())

	code := p.Code()
	end := len(code) * 3
	for i, ins := range code {
		if ins.Op != emitter.JPC && ins.Op != emitter.JMP {
			continue
		}
		if ins.M == 0 || ins.M%3 != 0 || ins.M > end {
			t.Errorf("instruction %d: %s has an unresolved target", i, ins)
		}
		if ins.Op == emitter.JPC && ins.M <= i*3 {
			t.Errorf("instruction %d: %s must jump forward", i, ins)
		}
	}
}

func TestIdempotent(t *testing.T) {
	src := "const k = 3; var x, y; begin read x; y := x * k; while y > 0 do y := y - 1; write y end."
	first := newTestParser(t, src, 0)
	checkParserErrors(t, first.ParseProgram())
	second := newTestParser(t, src, 0)
	checkParserErrors(t, second.ParseProgram())

	if !reflect.DeepEqual(first.Code(), second.Code()) {
		t.Errorf("code differs between compiles")
	}
	if !reflect.DeepEqual(first.Symbols(), second.Symbols()) {
		t.Errorf("symbols differ between compiles")
	}
}

// --- Errors ---

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  ErrorCode
	}{
		{"missing period", "var x; x := 1", ErrMissingPeriod},
		{"const without identifier", "const = 5; .", ErrMissingIdent},
		{"var without identifier", "var ; .", ErrMissingIdent},
		{"read without identifier", "var x; begin read 5 end.", ErrMissingIdent},
		{"const redeclared as var", "const a = 1; var a; .", ErrDuplicateSymbol},
		{"const section after var section", "var a; const a = 1; .", ErrMissingPeriod},
		{"var declared twice", "var x, x; .", ErrDuplicateSymbol},
		{"const declared twice", "const a = 1, a = 2; .", ErrDuplicateSymbol},
		{"const with becomes", "const a := 1; .", ErrConstMissingEq},
		{"const with identifier value", "const a = b; .", ErrConstMissingNumber},
		{"var without semicolon", "var x .", ErrMissingSemicolon},
		{"const without semicolon", "const a = 1 var x; .", ErrMissingSemicolon},
		{"undeclared assignment", "x := 1.", ErrUndeclared},
		{"undeclared in expression", "var x; x := y.", ErrUndeclared},
		{"assign to const", "const a = 1; a := 2.", ErrNotVariable},
		{"read into const", "const a = 1; read a.", ErrNotVariable},
		{"assignment with equals", "var x; x = 1.", ErrMissingBecomes},
		{"begin without end", "var x; begin x := 1 .", ErrMissingEnd},
		{"if without then", "var x; if x = 1 write x.", ErrMissingThen},
		{"while without do", "var x; while x = 1 write x.", ErrMissingDo},
		{"condition without operator", "var x; if x then write x end.", ErrMissingRelOp},
		{"unclosed parenthesis", "var x; x := (1 + 2.", ErrMissingRParen},
		{"operator without operand", "var x; x := * 2.", ErrBadFactor},
		{"empty expression", "write .", ErrBadFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(t, tt.input, 0)
			err := p.ParseProgram()
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if perr.Code != tt.code {
				t.Errorf("expected %q, got %q", tt.code, perr.Code)
			}
		})
	}
}

func TestUndeclaredMessageNamesIdentifier(t *testing.T) {
	p := newTestParser(t, "var x;\nbegin\n  x := total\nend.", 0)
	err := p.ParseProgram()
	if err == nil {
		t.Fatalf("expected an error")
	}
	if want := "3:8: Error: undeclared identifier total"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestProgramTooLong(t *testing.T) {
	p := newTestParser(t, "var x; x := 1.", 3)
	err := p.ParseProgram()
	if !errors.Is(err, emitter.ErrProgramTooLong) {
		t.Fatalf("expected ErrProgramTooLong, got %v", err)
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Code != ErrProgramTooLong {
		t.Fatalf("expected code %d, got %v", ErrProgramTooLong, err)
	}
	if n := len(p.Code()); n != 3 {
		t.Errorf("expected the 3 instructions emitted before the error, got %d", n)
	}
}

func TestErrorKeepsEmittedPrefix(t *testing.T) {
	p := newTestParser(t, "var x; if x then write x end.", 0)
	if err := p.ParseProgram(); err == nil {
		t.Fatalf("expected an error")
	}
	checkCode(t, p.Code(), []emitter.Instruction{
		in(emitter.JMP, 0, 3),
		in(emitter.INC, 0, 4),
		in(emitter.LOD, 0, 3),
	})
}

// The scanner drops an over-long identifier, so the parser never sees the
// later reference and cannot report it as undeclared. The compile still
// fails and the name never enters the table.
func TestDroppedIdentifierIsNeverDeclared(t *testing.T) {
	toks, diags := lexer.Scan("var abcdefghijkl, y; y := abcdefghijkl.", false)
	if len(diags) != 2 || diags[0].Kind != lexer.IdentTooLong {
		t.Fatalf("expected two identifier-too-long diagnostics, got %v", diags)
	}
	p := NewParser(toks, 0)
	err := p.ParseProgram()
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected a parse error, got %v", err)
	}
	for _, sym := range p.Symbols() {
		if strings.HasPrefix(sym.Name, "abcdefghijk") {
			t.Errorf("dropped identifier reached the symbol table: %+v", sym)
		}
	}
}

func BenchmarkParseProgram(b *testing.B) {
	body := strings.Repeat("x := x + 1; if x > 100 then x := 0;\n", 40)
	toks, _ := lexer.Scan("var x; begin "+body+" write x end.", false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := NewParser(toks, 0)
		if err := p.ParseProgram(); err != nil {
			b.Fatal(err)
		}
	}
}
