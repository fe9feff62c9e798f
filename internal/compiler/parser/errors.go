package parser

import (
	"fmt"

	"github.com/plzero/plc/internal/compiler/emitter"
	"github.com/plzero/plc/internal/compiler/token"
)

// ErrorCode identifies one of the fatal parse diagnostics.
type ErrorCode int

const (
	ErrMissingPeriod ErrorCode = iota + 1
	ErrMissingIdent
	ErrDuplicateSymbol
	ErrConstMissingEq
	ErrConstMissingNumber
	ErrMissingSemicolon
	ErrUndeclared
	ErrNotVariable
	ErrMissingBecomes
	ErrMissingEnd
	ErrMissingThen
	ErrMissingDo
	ErrMissingRelOp
	ErrMissingRParen
	ErrBadFactor
	ErrProgramTooLong
)

var errorMessages = map[ErrorCode]string{
	ErrMissingPeriod:      "program must end with period",
	ErrMissingIdent:       "const, var, and read keywords must be followed by identifier",
	ErrDuplicateSymbol:    "symbol name has already been declared",
	ErrConstMissingEq:     "constants must be assigned with =",
	ErrConstMissingNumber: "constants must be assigned an integer value",
	ErrMissingSemicolon:   "constant and variable declarations must be followed by a semicolon",
	ErrUndeclared:         "undeclared identifier %s",
	ErrNotVariable:        "only variable values may be altered",
	ErrMissingBecomes:     "assignment statements must use :=",
	ErrMissingEnd:         "begin must be followed by end",
	ErrMissingThen:        "if must be followed by then",
	ErrMissingDo:          "while must be followed by do",
	ErrMissingRelOp:       "condition must contain comparison operator",
	ErrMissingRParen:      "right parenthesis must follow left parenthesis",
	ErrBadFactor:          "arithmetic equations must contain operands, parentheses, numbers, or symbols",
	ErrProgramTooLong:     "program too long",
}

func (c ErrorCode) String() string {
	if s, ok := errorMessages[c]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// Error is the single fatal diagnostic a compile can produce.
type Error struct {
	Code    ErrorCode
	Message string
	Token   token.Token // token the parser was positioned on
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: Error: %s", e.Token.Line, e.Token.Column, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Code == ErrProgramTooLong {
		return emitter.ErrProgramTooLong
	}
	return nil
}

func newError(code ErrorCode, tok token.Token) *Error {
	msg := code.String()
	if code == ErrUndeclared {
		msg = fmt.Sprintf(msg, tok.Text)
	}
	return &Error{Code: code, Message: msg, Token: tok}
}
