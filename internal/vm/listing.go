package vm

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/plzero/plc/internal/compiler/emitter"
)

var listingLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `(?:#|//)[^\n]*`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "EOL", Pattern: `[\r\n]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

type listingFile struct {
	Lines []*listingLine `parser:"( @@ | EOL )*"`
}

type listingLine struct {
	Pos    lexer.Position
	Fields []*listingField `parser:"@@+ EOL?"`
}

type listingField struct {
	Int   *int    `parser:"  @Int"`
	Ident *string `parser:"| @Ident"`
}

var listingParser = participle.MustBuild[listingFile](
	participle.Lexer(listingLexer),
	participle.Elide("Comment", "Whitespace"),
)

// LoadListing reads a program in either of the forms the compiler writes:
// numeric "op L M" lines, or the assembly listing "[index] OP L M" with an
// optional header row. Comments start with # or //.
func LoadListing(name string, r io.Reader) ([]emitter.Instruction, error) {
	file, err := listingParser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var code []emitter.Instruction
	for _, line := range file.Lines {
		if line.isHeader() {
			continue
		}
		in, err := line.instruction(len(code))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line.Pos.Line, err)
		}
		code = append(code, in)
	}
	return code, nil
}

func (l *listingLine) isHeader() bool {
	for _, f := range l.Fields {
		if f.Ident == nil {
			return false
		}
	}
	return true
}

func (l *listingLine) shape() string {
	s := make([]byte, len(l.Fields))
	for i, f := range l.Fields {
		if f.Int != nil {
			s[i] = 'n'
		} else {
			s[i] = 'a'
		}
	}
	return string(s)
}

func (l *listingLine) instruction(next int) (emitter.Instruction, error) {
	f := l.Fields
	switch l.shape() {
	case "nnn":
		op := emitter.Opcode(*f[0].Int)
		if op < emitter.LIT || op > emitter.SYS {
			return emitter.Instruction{}, fmt.Errorf("%w: %d", ErrBadOpcode, *f[0].Int)
		}
		return emitter.Instruction{Op: op, L: *f[1].Int, M: *f[2].Int}, nil

	case "nann":
		if *f[0].Int != next {
			return emitter.Instruction{}, fmt.Errorf("expected instruction %d, found %d", next, *f[0].Int)
		}
		f = f[1:]
		fallthrough

	case "ann":
		op, ok := emitter.ParseOpcode(*f[0].Ident)
		if !ok {
			return emitter.Instruction{}, fmt.Errorf("%w: %s", ErrBadOpcode, *f[0].Ident)
		}
		return emitter.Instruction{Op: op, L: *f[1].Int, M: *f[2].Int}, nil
	}
	return emitter.Instruction{}, fmt.Errorf("expected op L M, found %d fields", len(f))
}
