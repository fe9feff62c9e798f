package parser

import (
	"errors"

	"github.com/plzero/plc/internal/compiler/emitter"
	"github.com/plzero/plc/internal/compiler/lib"
	"github.com/plzero/plc/internal/compiler/scope"
	"github.com/plzero/plc/internal/compiler/symbols"
	"github.com/plzero/plc/internal/compiler/token"
)

// Parser is the whole mutable state of a compile: the lexeme cursor, the
// symbol table with the scope currently open over it, and the instruction
// store. Every grammar procedure works on this one value and returns the
// first error it meets.
type Parser struct {
	toks   []token.Token
	pos    int
	curTok token.Token

	table *symbols.Table
	scope *scope.Scope
	code  *emitter.Store
}

// NewParser prepares a parse over a complete lexeme sequence. capacity bounds
// the number of instructions; zero selects emitter.DefaultCapacity.
func NewParser(toks []token.Token, capacity int) *Parser {
	table := symbols.NewTable()
	return &Parser{
		toks:  toks,
		table: table,
		scope: scope.NewScope(table, nil, "main"),
		code:  emitter.NewStore(capacity),
	}
}

// --- Token Handling ---

// nextToken advances the one-token lookahead. Past the end it yields EOF
// positioned at the last lexeme.
func (p *Parser) nextToken() {
	if p.pos < len(p.toks) {
		p.curTok = p.toks[p.pos]
		p.pos++
		return
	}
	eof := token.Token{Kind: token.EOF}
	if n := len(p.toks); n > 0 {
		last := p.toks[n-1]
		eof.Line, eof.Column = last.Line, last.Column+len(last.Text)
	}
	p.curTok = eof
}

func (p *Parser) fail(code ErrorCode) error {
	return newError(code, p.curTok)
}

// emit appends an instruction, turning store exhaustion into a parse error.
func (p *Parser) emit(op emitter.Opcode, l, m int) (int, error) {
	i, err := p.code.Emit(op, l, m)
	if errors.Is(err, emitter.ErrProgramTooLong) {
		return -1, p.fail(ErrProgramTooLong)
	}
	return i, err
}

// Symbols returns the declarations made so far.
func (p *Parser) Symbols() []symbols.Symbol {
	return p.table.Symbols()
}

// Code returns the instructions emitted so far.
func (p *Parser) Code() []emitter.Instruction {
	return p.code.Code()
}

// --- Program Parsing ---

// ParseProgram parses program = block "." and emits the complete code for it.
func (p *Parser) ParseProgram() error {
	p.nextToken()

	if _, err := p.emit(emitter.JMP, 0, lib.CodeAddress(1)); err != nil {
		return err
	}
	if err := p.parseBlock(); err != nil {
		return err
	}
	if p.curTok.Kind != token.Period {
		return p.fail(ErrMissingPeriod)
	}
	_, err := p.emit(emitter.SYS, 0, emitter.SysHalt)
	return err
}

func (p *Parser) parseBlock() error {
	if err := p.parseConstDeclaration(); err != nil {
		return err
	}
	numVars, err := p.parseVarDeclaration()
	if err != nil {
		return err
	}
	if _, err := p.emit(emitter.INC, 0, symbols.FirstVarAddress+numVars); err != nil {
		return err
	}
	return p.parseStatement()
}

// parseConstDeclaration parses [ "const" ident "=" number {"," ident "=" number} ";" ].
func (p *Parser) parseConstDeclaration() error {
	if p.curTok.Kind != token.Const {
		return nil
	}

	for {
		p.nextToken()
		if p.curTok.Kind != token.Ident {
			return p.fail(ErrMissingIdent)
		}
		name := p.curTok.Text
		if _, ok := p.scope.LookupCurrentScope(name); ok {
			return p.fail(ErrDuplicateSymbol)
		}

		p.nextToken()
		if p.curTok.Kind != token.Eq {
			return p.fail(ErrConstMissingEq)
		}
		p.nextToken()
		if p.curTok.Kind != token.Number {
			return p.fail(ErrConstMissingNumber)
		}
		value, err := numberValue(p.curTok)
		if err != nil {
			return p.fail(ErrConstMissingNumber)
		}
		if _, err := p.scope.Define(symbols.Const, name, value); err != nil {
			return p.fail(ErrDuplicateSymbol)
		}

		p.nextToken()
		if p.curTok.Kind != token.Comma {
			break
		}
	}

	if p.curTok.Kind != token.Semicolon {
		return p.fail(ErrMissingSemicolon)
	}
	p.nextToken()
	return nil
}

// parseVarDeclaration parses [ "var" ident {"," ident} ";" ] and returns the
// number of variables declared.
func (p *Parser) parseVarDeclaration() (int, error) {
	if p.curTok.Kind != token.Var {
		return 0, nil
	}

	numVars := 0
	for {
		p.nextToken()
		if p.curTok.Kind != token.Ident {
			return numVars, p.fail(ErrMissingIdent)
		}
		if _, err := p.scope.Define(symbols.Var, p.curTok.Text, 0); err != nil {
			return numVars, p.fail(ErrDuplicateSymbol)
		}
		numVars++

		p.nextToken()
		if p.curTok.Kind != token.Comma {
			break
		}
	}

	if p.curTok.Kind != token.Semicolon {
		return numVars, p.fail(ErrMissingSemicolon)
	}
	p.nextToken()
	return numVars, nil
}
