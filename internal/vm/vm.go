package vm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/plzero/plc/internal/compiler/emitter"
	"github.com/plzero/plc/internal/compiler/lib"
)

// StackSize is the number of words on the data stack.
const StackSize = 500

var (
	ErrHalted         = errors.New("machine halted")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrDivideByZero   = errors.New("division by zero")
	ErrBadOpcode      = errors.New("bad opcode")
	ErrBadAddress     = errors.New("program counter out of range")
	ErrStepLimit      = errors.New("step limit exceeded")
)

// Machine is a stack machine for the PL/0 instruction set. The stack grows
// upward; SP indexes the top word and is -1 when the stack is empty. PC is a
// code address, so it advances by lib.InstructionWidth per instruction.
type Machine struct {
	Code  []emitter.Instruction
	Stack [StackSize]int

	PC int
	BP int
	SP int

	Halted bool
	Steps  int

	// StepLimit stops runaway programs. Zero means no limit.
	StepLimit int

	// In is read by SYS 0 2 and Out receives SYS 0 1. They default to
	// os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer

	in *bufio.Reader
}

func New(code []emitter.Instruction) *Machine {
	return &Machine{Code: code, SP: -1}
}

func (m *Machine) input() *bufio.Reader {
	if m.in == nil {
		r := m.In
		if r == nil {
			r = os.Stdin
		}
		m.in = bufio.NewReader(r)
	}
	return m.in
}

func (m *Machine) output() io.Writer {
	if m.Out == nil {
		return os.Stdout
	}
	return m.Out
}

// base follows l static links from the current frame.
func (m *Machine) base(l int) (int, error) {
	b := m.BP
	for ; l > 0; l-- {
		if b < 0 || b >= StackSize {
			return 0, fmt.Errorf("%w: static link %d", ErrBadAddress, b)
		}
		b = m.Stack[b]
	}
	return b, nil
}

func (m *Machine) push(v int) error {
	if m.SP+1 >= StackSize {
		return ErrStackOverflow
	}
	m.SP++
	m.Stack[m.SP] = v
	return nil
}

func (m *Machine) pop() (int, error) {
	if m.SP < 0 {
		return 0, ErrStackUnderflow
	}
	v := m.Stack[m.SP]
	m.SP--
	return v, nil
}

func (m *Machine) slot(addr int) (*int, error) {
	if addr < 0 || addr >= StackSize {
		return nil, fmt.Errorf("%w: stack address %d", ErrBadAddress, addr)
	}
	return &m.Stack[addr], nil
}

// Step executes one instruction.
func (m *Machine) Step() error {
	if m.Halted {
		return ErrHalted
	}
	idx, ok := lib.CodeIndex(m.PC)
	if !ok || idx >= len(m.Code) {
		return fmt.Errorf("%w: %d", ErrBadAddress, m.PC)
	}
	in := m.Code[idx]
	m.PC += lib.InstructionWidth
	m.Steps++

	if err := m.exec(in); err != nil {
		return fmt.Errorf("instruction %d (%s): %w", idx, in, err)
	}
	return nil
}

func (m *Machine) exec(in emitter.Instruction) error {
	switch in.Op {
	case emitter.LIT:
		return m.push(in.M)

	case emitter.OPR:
		return m.operate(in.M)

	case emitter.LOD:
		b, err := m.base(in.L)
		if err != nil {
			return err
		}
		p, err := m.slot(b + in.M)
		if err != nil {
			return err
		}
		return m.push(*p)

	case emitter.STO:
		v, err := m.pop()
		if err != nil {
			return err
		}
		b, err := m.base(in.L)
		if err != nil {
			return err
		}
		p, err := m.slot(b + in.M)
		if err != nil {
			return err
		}
		*p = v

	case emitter.CAL:
		if m.SP+3 >= StackSize {
			return ErrStackOverflow
		}
		b, err := m.base(in.L)
		if err != nil {
			return err
		}
		m.Stack[m.SP+1] = b    // static link
		m.Stack[m.SP+2] = m.BP // dynamic link
		m.Stack[m.SP+3] = m.PC // return address
		m.BP = m.SP + 1
		m.PC = in.M

	case emitter.INC:
		if m.SP+in.M >= StackSize {
			return ErrStackOverflow
		}
		if m.SP+in.M < -1 {
			return ErrStackUnderflow
		}
		m.SP += in.M

	case emitter.JMP:
		m.PC = in.M

	case emitter.JPC:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if v == 0 {
			m.PC = in.M
		}

	case emitter.SYS:
		return m.system(in.M)

	default:
		return ErrBadOpcode
	}
	return nil
}

func (m *Machine) operate(op int) error {
	if op == emitter.OprRTN {
		if m.BP == 0 {
			m.Halted = true
			return nil
		}
		m.SP = m.BP - 1
		m.PC = m.Stack[m.SP+3]
		m.BP = m.Stack[m.SP+2]
		return nil
	}

	if op == emitter.OprODD {
		if m.SP < 0 {
			return ErrStackUnderflow
		}
		m.Stack[m.SP] %= 2
		if m.Stack[m.SP] < 0 {
			m.Stack[m.SP] = -m.Stack[m.SP]
		}
		return nil
	}

	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}

	var r int
	switch op {
	case emitter.OprADD:
		r = a + b
	case emitter.OprSUB:
		r = a - b
	case emitter.OprMUL:
		r = a * b
	case emitter.OprDIV:
		if b == 0 {
			return ErrDivideByZero
		}
		r = a / b
	case emitter.OprEQL:
		r = truth(a == b)
	case emitter.OprNEQ:
		r = truth(a != b)
	case emitter.OprLSS:
		r = truth(a < b)
	case emitter.OprLEQ:
		r = truth(a <= b)
	case emitter.OprGTR:
		r = truth(a > b)
	case emitter.OprGEQ:
		r = truth(a >= b)
	default:
		return fmt.Errorf("%w: OPR %d", ErrBadOpcode, op)
	}
	return m.push(r)
}

func (m *Machine) system(op int) error {
	switch op {
	case emitter.SysWrite:
		v, err := m.pop()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(m.output(), v)
		return err

	case emitter.SysRead:
		var v int
		if _, err := fmt.Fscan(m.input(), &v); err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		return m.push(v)

	case emitter.SysHalt:
		m.Halted = true
		return nil
	}
	return fmt.Errorf("%w: SYS %d", ErrBadOpcode, op)
}

func truth(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Run executes until the program halts, an instruction fails, the step
// limit is reached or ctx is cancelled.
func (m *Machine) Run(ctx context.Context) error {
	for !m.Halted {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.StepLimit > 0 && m.Steps >= m.StepLimit {
			return fmt.Errorf("%w (%d)", ErrStepLimit, m.StepLimit)
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
