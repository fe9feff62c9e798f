package compiler

import (
	"fmt"
	"os"

	"github.com/plzero/plc/internal/compiler/emitter"
	"github.com/plzero/plc/internal/compiler/lexer"
	"github.com/plzero/plc/internal/compiler/parser"
	"github.com/plzero/plc/internal/compiler/symbols"
	"github.com/plzero/plc/internal/compiler/token"
	"github.com/plzero/plc/internal/logging"
)

type Options struct {
	LenientPairs bool
	MaxCode      int // instruction store capacity, 0 for the default
	Log          *logging.Logger
}

// Result is everything a compile produced. After a fatal error it still holds
// the lexemes, the lexical diagnostics and whatever had been emitted.
type Result struct {
	Source      string
	Lexemes     []token.Token
	Diagnostics []lexer.Diagnostic
	Symbols     []symbols.Symbol
	Code        []emitter.Instruction
}

// Compile scans src completely and then parses the lexeme sequence, emitting
// code in the same pass.
func Compile(src string, opts Options) (*Result, error) {
	res := &Result{Source: src}

	opts.Log.LogStateChange("Scanning")
	res.Lexemes, res.Diagnostics = lexer.Scan(src, opts.LenientPairs)
	for _, d := range res.Diagnostics {
		opts.Log.LogWarning(d.Error())
	}

	opts.Log.LogStateChange("Parsing")
	p := parser.NewParser(res.Lexemes, opts.MaxCode)
	err := p.ParseProgram()
	res.Symbols = p.Symbols()
	res.Code = p.Code()
	if err != nil {
		opts.Log.LogError(err)
		return res, err
	}
	return res, nil
}

// CompileFile reads and compiles the source at path.
func CompileFile(path string, opts Options) (*Result, error) {
	content, err := readSource(path)
	if err != nil {
		return nil, fmt.Errorf("could not open input file %s: %w", path, err)
	}
	return Compile(content, opts)
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}
