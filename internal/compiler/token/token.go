package token

import "strconv"

// Kind is the ordinal of a lexeme class. The numbering is stable and is what
// the reports print, so new kinds must only ever be appended.
type Kind int

const (
	EOF Kind = iota // end of the lexeme sequence, never stored

	Odd       // odd
	Ident     // identifier
	Number    // 42
	Plus      // +
	Minus     // -
	Mult      // *
	Slash     // /
	_         // unassigned
	Eq        // =
	Neq       // <>
	Lss       // <
	Leq       // <=
	Gtr       // >
	Geq       // >=
	LParen    // (
	RParen    // )
	Comma     // ,
	Semicolon // ;
	Period    // .
	Becomes   // :=
	Begin     // begin
	End       // end
	If        // if
	Then      // then
	While     // while
	Do        // do
	Call      // call
	Const     // const
	Var       // var
	Procedure // procedure
	Write     // write
	Read      // read
	Else      // else
)

const (
	MaxIdentLength  = 11
	MaxNumberLength = 5
)

type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}

// Ordinal returns the numeric kind code as printed in the lexeme table.
func (t Token) Ordinal() int {
	return int(t.Kind)
}

func (t Token) String() string {
	return t.Text
}

var names = map[Kind]string{
	EOF:       "EOF",
	Odd:       "odd",
	Ident:     "identifier",
	Number:    "number",
	Plus:      "+",
	Minus:     "-",
	Mult:      "*",
	Slash:     "/",
	Eq:        "=",
	Neq:       "<>",
	Lss:       "<",
	Leq:       "<=",
	Gtr:       ">",
	Geq:       ">=",
	LParen:    "(",
	RParen:    ")",
	Comma:     ",",
	Semicolon: ";",
	Period:    ".",
	Becomes:   ":=",
	Begin:     "begin",
	End:       "end",
	If:        "if",
	Then:      "then",
	While:     "while",
	Do:        "do",
	Call:      "call",
	Const:     "const",
	Var:       "var",
	Procedure: "procedure",
	Write:     "write",
	Read:      "read",
	Else:      "else",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// keywords maps reserved words to their kinds. Matching is case-sensitive.
var keywords = map[string]Kind{
	"odd":       Odd,
	"begin":     Begin,
	"end":       End,
	"if":        If,
	"then":      Then,
	"while":     While,
	"do":        Do,
	"call":      Call,
	"const":     Const,
	"var":       Var,
	"procedure": Procedure,
	"write":     Write,
	"read":      Read,
	"else":      Else,
}

// LookupIdent returns the keyword kind for ident, or Ident if it is not
// reserved.
func LookupIdent(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Ident
}

// symbols holds every valid one- and two-character operator.
var symbols = map[string]Kind{
	"+":  Plus,
	"-":  Minus,
	"*":  Mult,
	"/":  Slash,
	"(":  LParen,
	")":  RParen,
	",":  Comma,
	";":  Semicolon,
	".":  Period,
	"=":  Eq,
	"<":  Lss,
	">":  Gtr,
	":=": Becomes,
	"<=": Leq,
	">=": Geq,
	"<>": Neq,
}

// LookupSymbol reports the kind of an operator spelling.
func LookupSymbol(s string) (Kind, bool) {
	k, ok := symbols[s]
	return k, ok
}

// IsSpecial reports whether ch belongs to the punctuation class, including
// the characters that are always rejected.
func IsSpecial(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '(', ')', '=', ',', '.', '<', '>', ':', ';',
		'&', '%', '!', '@', '#', '$', '?', '^', '`', '~', '|':
		return true
	}
	return false
}

// IsRelational reports whether k is one of the six comparison operators.
func (k Kind) IsRelational() bool {
	return k >= Eq && k <= Geq
}
