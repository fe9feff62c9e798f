package emitter

import (
	"errors"
	"fmt"

	"github.com/plzero/plc/internal/compiler/lib"
)

type Opcode int

const (
	LIT Opcode = iota + 1
	OPR
	LOD
	STO
	CAL
	INC
	JMP
	JPC
	SYS
)

var mnemonics = [...]string{"", "LIT", "OPR", "LOD", "STO", "CAL", "INC", "JMP", "JPC", "SYS"}

func (op Opcode) String() string {
	if op >= LIT && op <= SYS {
		return mnemonics[op]
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// ParseOpcode maps a mnemonic back to its opcode.
func ParseOpcode(s string) (Opcode, bool) {
	for i := LIT; i <= SYS; i++ {
		if mnemonics[i] == s {
			return i, true
		}
	}
	return 0, false
}

// OPR sub-operations, carried in the M field.
const (
	OprRTN = iota
	OprADD
	OprSUB
	OprMUL
	OprDIV
	OprEQL
	OprNEQ
	OprLSS
	OprLEQ
	OprGTR
	OprGEQ
	OprODD
)

// SYS sub-operations, carried in the M field.
const (
	SysWrite = 1
	SysRead  = 2
	SysHalt  = 3
)

// DefaultCapacity is the instruction limit when none is configured.
const DefaultCapacity = 500

var ErrProgramTooLong = errors.New("program too long")

type Instruction struct {
	Op Opcode
	L  int
	M  int
}

func (in Instruction) String() string {
	return fmt.Sprintf("%s %d %d", in.Op, in.L, in.M)
}

// Store is the flat instruction buffer the parser emits into.
type Store struct {
	code     []Instruction
	capacity int
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{code: make([]Instruction, 0, min(capacity, DefaultCapacity)), capacity: capacity}
}

// Emit appends an instruction and returns its index.
func (s *Store) Emit(op Opcode, l, m int) (int, error) {
	if len(s.code) >= s.capacity {
		return -1, ErrProgramTooLong
	}
	s.code = append(s.code, Instruction{Op: op, L: l, M: m})
	return len(s.code) - 1, nil
}

// Patch overwrites the M field of an already emitted instruction.
func (s *Store) Patch(index, m int) {
	s.code[index].M = m
}

// Len is the index the next instruction will get.
func (s *Store) Len() int {
	return len(s.code)
}

// NextAddress is the code address of the next instruction.
func (s *Store) NextAddress() int {
	return lib.CodeAddress(len(s.code))
}

func (s *Store) At(index int) Instruction {
	return s.code[index]
}

// Code returns a copy of the emitted instructions.
func (s *Store) Code() []Instruction {
	out := make([]Instruction, len(s.code))
	copy(out, s.code)
	return out
}
