package parser

import (
	"github.com/plzero/plc/internal/compiler/emitter"
	"github.com/plzero/plc/internal/compiler/symbols"
	"github.com/plzero/plc/internal/compiler/token"
)

// --- Statement Parsing ---

func (p *Parser) parseStatement() error {
	switch p.curTok.Kind {
	case token.Ident:
		return p.parseAssignment()
	case token.Begin:
		return p.parseCompound()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.Read:
		return p.parseRead()
	case token.Write:
		return p.parseWrite()
	default:
		// empty statement
		return nil
	}
}

// resolveVariable looks up the current identifier as a store target.
func (p *Parser) resolveVariable() (symbols.Symbol, int, error) {
	sym, levelDiff, ok := p.scope.Lookup(p.curTok.Text)
	if !ok {
		return sym, 0, p.fail(ErrUndeclared)
	}
	if sym.Kind != symbols.Var {
		return sym, 0, p.fail(ErrNotVariable)
	}
	return sym, levelDiff, nil
}

// parseAssignment parses ident ":=" expression.
func (p *Parser) parseAssignment() error {
	sym, levelDiff, err := p.resolveVariable()
	if err != nil {
		return err
	}

	p.nextToken()
	if p.curTok.Kind != token.Becomes {
		return p.fail(ErrMissingBecomes)
	}
	p.nextToken()

	if err := p.parseExpression(); err != nil {
		return err
	}
	_, err = p.emit(emitter.STO, levelDiff, sym.Address)
	return err
}

// parseCompound parses "begin" statement {";" statement} "end".
func (p *Parser) parseCompound() error {
	p.nextToken()
	if err := p.parseStatement(); err != nil {
		return err
	}
	for p.curTok.Kind == token.Semicolon {
		p.nextToken()
		if err := p.parseStatement(); err != nil {
			return err
		}
	}

	if p.curTok.Kind != token.End {
		return p.fail(ErrMissingEnd)
	}
	p.nextToken()
	return nil
}

// parseIf parses "if" condition "then" statement. The JPC is patched to the
// first instruction after the guarded statement.
func (p *Parser) parseIf() error {
	p.nextToken()
	if err := p.parseCondition(); err != nil {
		return err
	}
	if p.curTok.Kind != token.Then {
		return p.fail(ErrMissingThen)
	}
	p.nextToken()

	jpc, err := p.emit(emitter.JPC, 0, 0)
	if err != nil {
		return err
	}
	if err := p.parseStatement(); err != nil {
		return err
	}
	p.code.Patch(jpc, p.code.NextAddress())
	return nil
}

// parseWhile parses "while" condition "do" statement. The body is followed by
// a JMP back to the condition, and the JPC is patched past that JMP.
func (p *Parser) parseWhile() error {
	loop := p.code.NextAddress()

	p.nextToken()
	if err := p.parseCondition(); err != nil {
		return err
	}
	if p.curTok.Kind != token.Do {
		return p.fail(ErrMissingDo)
	}
	p.nextToken()

	jpc, err := p.emit(emitter.JPC, 0, 0)
	if err != nil {
		return err
	}
	if err := p.parseStatement(); err != nil {
		return err
	}
	if _, err := p.emit(emitter.JMP, 0, loop); err != nil {
		return err
	}
	p.code.Patch(jpc, p.code.NextAddress())
	return nil
}

// parseRead parses "read" ident.
func (p *Parser) parseRead() error {
	p.nextToken()
	if p.curTok.Kind != token.Ident {
		return p.fail(ErrMissingIdent)
	}
	sym, levelDiff, err := p.resolveVariable()
	if err != nil {
		return err
	}
	p.nextToken()

	if _, err := p.emit(emitter.SYS, 0, emitter.SysRead); err != nil {
		return err
	}
	_, err = p.emit(emitter.STO, levelDiff, sym.Address)
	return err
}

// parseWrite parses "write" expression.
func (p *Parser) parseWrite() error {
	p.nextToken()
	if err := p.parseExpression(); err != nil {
		return err
	}
	_, err := p.emit(emitter.SYS, 0, emitter.SysWrite)
	return err
}
