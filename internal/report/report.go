package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/plzero/plc/internal/compiler"
	"github.com/plzero/plc/internal/compiler/emitter"
	"github.com/plzero/plc/internal/compiler/lexer"
	"github.com/plzero/plc/internal/compiler/symbols"
	"github.com/plzero/plc/internal/compiler/token"
)

// Source echoes the program text, making sure it ends in a newline.
func Source(w io.Writer, src string) {
	fmt.Fprint(w, src)
	if !strings.HasSuffix(src, "\n") {
		fmt.Fprintln(w)
	}
}

// LexemeTable prints one row per lexeme with its token ordinal. Dropped
// lexemes appear in source order as ERROR rows.
func LexemeTable(w io.Writer, lexemes []token.Token, diags []lexer.Diagnostic) {
	fmt.Fprintf(w, "%10s %20s\n", "lexeme", "token type")

	i, j := 0, 0
	for i < len(lexemes) || j < len(diags) {
		if j < len(diags) && (i == len(lexemes) || before(diags[j], lexemes[i])) {
			d := diags[j]
			fmt.Fprintf(w, "%10s %20s\n", d.Text, "ERROR: "+d.Kind.String())
			j++
			continue
		}
		tok := lexemes[i]
		fmt.Fprintf(w, "%10s %20d\n", tok.Text, tok.Ordinal())
		i++
	}
}

func before(d lexer.Diagnostic, tok token.Token) bool {
	if d.Line != tok.Line {
		return d.Line < tok.Line
	}
	return d.Column < tok.Column
}

// TokenList prints the ordinals on one line, each identifier and number
// followed by its text.
func TokenList(w io.Writer, lexemes []token.Token) {
	parts := make([]string, 0, len(lexemes))
	for _, tok := range lexemes {
		parts = append(parts, fmt.Sprint(tok.Ordinal()))
		if tok.Kind == token.Ident || tok.Kind == token.Number {
			parts = append(parts, tok.Text)
		}
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

func SymbolTable(w io.Writer, syms []symbols.Symbol) {
	fmt.Fprintf(w, "%6s | %11s | %5s | %5s | %7s\n", "Kind", "Name", "Value", "Level", "Address")
	fmt.Fprintln(w, strings.Repeat("-", 46))
	for _, s := range syms {
		fmt.Fprintf(w, "%6d | %11s | %5d | %5d | %7d\n", s.Kind, s.Name, s.Value, s.Level, s.Address)
	}
}

// Listing prints the assembly form, one instruction per line with its index.
func Listing(w io.Writer, code []emitter.Instruction) {
	fmt.Fprintf(w, "%4s %5s %4s %4s\n", "Line", "OP", "L", "M")
	for i, in := range code {
		fmt.Fprintf(w, "%4d %5s %4d %4d\n", i, in.Op, in.L, in.M)
	}
}

// CodeFile writes the numeric form the VM loads.
func CodeFile(w io.Writer, code []emitter.Instruction) {
	for _, in := range code {
		fmt.Fprintf(w, "%d %d %d\n", in.Op, in.L, in.M)
	}
}

// Full writes every section of a compile report. The symbol table and
// listing are left out when the compile failed.
func Full(w io.Writer, res *compiler.Result, compileErr error) {
	fmt.Fprintln(w, "Source Program:")
	Source(w, res.Source)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Lexeme Table:")
	fmt.Fprintln(w)
	LexemeTable(w, res.Lexemes, res.Diagnostics)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Token List:")
	TokenList(w, res.Lexemes)
	fmt.Fprintln(w)

	if compileErr != nil {
		fmt.Fprintln(w, compileErr)
		return
	}

	fmt.Fprintln(w, "Symbol Table:")
	fmt.Fprintln(w)
	SymbolTable(w, res.Symbols)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assembly Code:")
	fmt.Fprintln(w)
	Listing(w, res.Code)
}
