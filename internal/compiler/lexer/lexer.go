package lexer

import (
	"fmt"

	"github.com/plzero/plc/internal/compiler/token"
)

type DiagnosticKind int

const (
	NumberTooLong DiagnosticKind = iota + 1
	IdentTooLong
	InvalidSymbol
	UnterminatedComment
)

var diagnosticMessages = map[DiagnosticKind]string{
	NumberTooLong:       "NUMBER TOO LONG",
	IdentTooLong:        "IDENTIFIER TOO LONG",
	InvalidSymbol:       "INVALID SYMBOL",
	UnterminatedComment: "UNTERMINATED COMMENT",
}

func (k DiagnosticKind) String() string {
	if s, ok := diagnosticMessages[k]; ok {
		return s
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic is a non-fatal lexical error. The offending text never reaches
// the lexeme sequence.
type Diagnostic struct {
	Kind   DiagnosticKind
	Text   string
	Line   int
	Column int
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: Lexical Error: %s: %q", d.Line, d.Column, d.Kind, d.Text)
}

type Lexer struct {
	input        string
	position     int  // current char index
	readPosition int  // next char index
	ch           byte // current char

	line   int // current line number (1-indexed)
	column int // current column number (1-indexed)

	// LenientPairs keeps the first character of an adjacent punctuation pair
	// that does not spell a two-character operator and rescans from the
	// second one. By default both characters are rejected.
	LenientPairs bool

	diags []Diagnostic
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Scan runs a fresh lexer over src and returns every accepted lexeme in order
// together with the diagnostics for the ones that were dropped.
func Scan(src string, lenientPairs bool) ([]token.Token, []Diagnostic) {
	l := NewLexer(src)
	l.LenientPairs = lenientPairs
	toks := l.ScanAll()
	return toks, l.Diagnostics()
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// Diagnostics returns the lexical errors reported so far, in source order.
func (l *Lexer) Diagnostics() []Diagnostic {
	return l.diags
}

// ScanAll drains the lexer. The EOF token is not included.
func (l *Lexer) ScanAll() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

// NextToken returns the next accepted lexeme. Lexemes that fail validation
// are reported and skipped.
func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespace()

		line, col := l.line, l.column
		if l.atEOF() {
			return token.Token{Kind: token.EOF, Line: line, Column: col}
		}

		var (
			tok token.Token
			ok  bool
		)
		switch {
		case isDigit(l.ch):
			tok, ok = l.readNumber(line, col)
		case isLetter(l.ch):
			tok, ok = l.readIdentifier(line, col)
		case token.IsSpecial(l.ch):
			tok, ok = l.readSymbol(line, col)
		default:
			l.report(InvalidSymbol, string(l.ch), line, col)
			l.readChar()
		}
		if ok {
			return tok
		}
	}
}

func (l *Lexer) report(kind DiagnosticKind, text string, line, col int) {
	l.diags = append(l.diags, Diagnostic{Kind: kind, Text: text, Line: line, Column: col})
}

// skipWhitespace skips blanks and every other control character.
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && (l.ch <= ' ' || l.ch == 0x7f) {
		l.readChar()
	}
}

func (l *Lexer) readNumber(line, col int) (token.Token, bool) {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.position]
	if len(text) > token.MaxNumberLength {
		l.report(NumberTooLong, text, line, col)
		return token.Token{}, false
	}
	return token.Token{Kind: token.Number, Text: text, Line: line, Column: col}, true
}

func (l *Lexer) readIdentifier(line, col int) (token.Token, bool) {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.position]

	kind := token.LookupIdent(text)
	if kind == token.Ident && len(text) > token.MaxIdentLength {
		l.report(IdentTooLong, text, line, col)
		return token.Token{}, false
	}
	return token.Token{Kind: kind, Text: text, Line: line, Column: col}, true
}

func (l *Lexer) readSymbol(line, col int) (token.Token, bool) {
	c := l.ch
	next := l.peekChar()

	if token.IsSpecial(next) {
		switch {
		case c == '/' && next == '*':
			l.readBlockComment(line, col)
			return token.Token{}, false
		case c == '/' && next == '/':
			l.readLineComment()
			return token.Token{}, false
		}

		pair := string([]byte{c, next})
		if kind, ok := token.LookupSymbol(pair); ok {
			l.readChar()
			l.readChar()
			return token.Token{Kind: kind, Text: pair, Line: line, Column: col}, true
		}
		if !l.LenientPairs {
			l.report(InvalidSymbol, string(c), line, col)
			l.report(InvalidSymbol, string(next), line, col+1)
			l.readChar()
			l.readChar()
			return token.Token{}, false
		}
	}

	l.readChar()
	text := string(c)
	if kind, ok := token.LookupSymbol(text); ok {
		return token.Token{Kind: kind, Text: text, Line: line, Column: col}, true
	}
	l.report(InvalidSymbol, text, line, col)
	return token.Token{}, false
}

// readLineComment discards everything up to and including the next newline.
func (l *Lexer) readLineComment() {
	for !l.atEOF() && l.ch != '\n' {
		l.readChar()
	}
	if !l.atEOF() {
		l.readChar()
	}
}

func (l *Lexer) readBlockComment(line, col int) {
	l.readChar() // '/'
	l.readChar() // '*'

	for {
		if l.atEOF() {
			l.report(UnterminatedComment, "/*", line, col)
			return
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
