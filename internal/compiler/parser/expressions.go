package parser

import (
	"strconv"

	"github.com/plzero/plc/internal/compiler/emitter"
	"github.com/plzero/plc/internal/compiler/symbols"
	"github.com/plzero/plc/internal/compiler/token"
)

var relationalOps = map[token.Kind]int{
	token.Eq:  emitter.OprEQL,
	token.Neq: emitter.OprNEQ,
	token.Lss: emitter.OprLSS,
	token.Leq: emitter.OprLEQ,
	token.Gtr: emitter.OprGTR,
	token.Geq: emitter.OprGEQ,
}

// parseCondition parses "odd" expression | expression rel-op expression.
func (p *Parser) parseCondition() error {
	if p.curTok.Kind == token.Odd {
		p.nextToken()
		if err := p.parseExpression(); err != nil {
			return err
		}
		_, err := p.emit(emitter.OPR, 0, emitter.OprODD)
		return err
	}

	if err := p.parseExpression(); err != nil {
		return err
	}
	opr, ok := relationalOps[p.curTok.Kind]
	if !ok {
		return p.fail(ErrMissingRelOp)
	}
	p.nextToken()
	if err := p.parseExpression(); err != nil {
		return err
	}
	_, err := p.emit(emitter.OPR, 0, opr)
	return err
}

// parseExpression parses term {("+"|"-") term}, left-associative.
func (p *Parser) parseExpression() error {
	if err := p.parseTerm(); err != nil {
		return err
	}
	for p.curTok.Kind == token.Plus || p.curTok.Kind == token.Minus {
		opr := emitter.OprADD
		if p.curTok.Kind == token.Minus {
			opr = emitter.OprSUB
		}
		p.nextToken()
		if err := p.parseTerm(); err != nil {
			return err
		}
		if _, err := p.emit(emitter.OPR, 0, opr); err != nil {
			return err
		}
	}
	return nil
}

// parseTerm parses factor {("*"|"/") factor}, left-associative.
func (p *Parser) parseTerm() error {
	if err := p.parseFactor(); err != nil {
		return err
	}
	for p.curTok.Kind == token.Mult || p.curTok.Kind == token.Slash {
		opr := emitter.OprMUL
		if p.curTok.Kind == token.Slash {
			opr = emitter.OprDIV
		}
		p.nextToken()
		if err := p.parseFactor(); err != nil {
			return err
		}
		if _, err := p.emit(emitter.OPR, 0, opr); err != nil {
			return err
		}
	}
	return nil
}

// parseFactor parses ident | number | "(" expression ")".
func (p *Parser) parseFactor() error {
	switch p.curTok.Kind {
	case token.Ident:
		sym, levelDiff, ok := p.scope.Lookup(p.curTok.Text)
		if !ok {
			return p.fail(ErrUndeclared)
		}
		var err error
		if sym.Kind == symbols.Const {
			_, err = p.emit(emitter.LIT, 0, sym.Value)
		} else {
			_, err = p.emit(emitter.LOD, levelDiff, sym.Address)
		}
		if err != nil {
			return err
		}
		p.nextToken()
		return nil

	case token.Number:
		value, err := numberValue(p.curTok)
		if err != nil {
			return p.fail(ErrBadFactor)
		}
		if _, err := p.emit(emitter.LIT, 0, value); err != nil {
			return err
		}
		p.nextToken()
		return nil

	case token.LParen:
		p.nextToken()
		if err := p.parseExpression(); err != nil {
			return err
		}
		if p.curTok.Kind != token.RParen {
			return p.fail(ErrMissingRParen)
		}
		p.nextToken()
		return nil
	}

	return p.fail(ErrBadFactor)
}

func numberValue(tok token.Token) (int, error) {
	return strconv.Atoi(tok.Text)
}
