// Package vm implements the stack-based virtual machine of the alternative
// bytecode back end. It executes a compiler.Chunk with a
// single dispatch loop over an instruction pointer, switching on opcode
// bytes where machine.Interpreter's tree-walking eval recurses over
// ast.Expr nodes.
package vm

import (
	"fmt"

	"github.com/loxlang/lox/lang/compiler"
	"github.com/loxlang/lox/lang/machine"
)

// stackMax is the fixed upper bound on the value stack. The 14-opcode
// expression grammar can never nest deeper than the source expression
// itself, so this is generous headroom rather than a tuned limit.
const stackMax = 256

// RuntimeError is returned when a chunk fails during execution: a type
// mismatch on an arithmetic or comparison opcode, or stack exhaustion.
type RuntimeError struct {
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string { return e.Msg }

// Diagnostic formats the error for display on the CLI.
func (e *RuntimeError) Diagnostic() string {
	return fmt.Sprintf("%s\n[line %d] in script", e.Msg, e.Line)
}

// VM executes a single compiler.Chunk.
type VM struct {
	chunk *compiler.Chunk
	ip    int
	stack []machine.Value
}

// New returns a VM ready to run chunk.
func New(chunk *compiler.Chunk) *VM {
	return &VM{chunk: chunk, stack: make([]machine.Value, 0, stackMax)}
}

// Run executes the chunk to completion and returns the value produced by
// the terminating OpReturn.
func (m *VM) Run() (machine.Value, error) {
	for {
		op := compiler.Opcode(m.chunk.Code[m.ip])
		line := m.chunk.Lines[m.ip]
		m.ip++

		switch op {
		case compiler.OpConstant:
			idx := m.chunk.Code[m.ip]
			m.ip++
			if err := m.push(m.chunk.Constants[idx], line); err != nil {
				return nil, err
			}
		case compiler.OpNil:
			if err := m.push(machine.Nil{}, line); err != nil {
				return nil, err
			}
		case compiler.OpTrue:
			if err := m.push(machine.Bool(true), line); err != nil {
				return nil, err
			}
		case compiler.OpFalse:
			if err := m.push(machine.Bool(false), line); err != nil {
				return nil, err
			}
		case compiler.OpNegate:
			v, err := m.popNum(line)
			if err != nil {
				return nil, err
			}
			if err := m.push(-v, line); err != nil {
				return nil, err
			}
		case compiler.OpNot:
			v := m.pop()
			if err := m.push(machine.Bool(!machine.Truthy(v)), line); err != nil {
				return nil, err
			}
		case compiler.OpEqual:
			b, a := m.pop(), m.pop()
			if err := m.push(machine.Bool(machine.Equals(a, b)), line); err != nil {
				return nil, err
			}
		case compiler.OpGreater, compiler.OpLess:
			b, a, err := m.popNumPair(line)
			if err != nil {
				return nil, err
			}
			cmp := a.Cmp(b)
			result := cmp > 0
			if op == compiler.OpLess {
				result = cmp < 0
			}
			if err := m.push(machine.Bool(result), line); err != nil {
				return nil, err
			}
		case compiler.OpAdd:
			b, a := m.pop(), m.pop()
			v, err := addValues(a, b, line)
			if err != nil {
				return nil, err
			}
			if err := m.push(v, line); err != nil {
				return nil, err
			}
		case compiler.OpSubtract, compiler.OpMultiply, compiler.OpDivide:
			b, a, err := m.popNumPair(line)
			if err != nil {
				return nil, err
			}
			var v machine.Num
			switch op {
			case compiler.OpSubtract:
				v = a - b
			case compiler.OpMultiply:
				v = a * b
			case compiler.OpDivide:
				v = a / b
			}
			if err := m.push(v, line); err != nil {
				return nil, err
			}
		case compiler.OpReturn:
			return m.pop(), nil
		default:
			return nil, &RuntimeError{Line: line, Msg: fmt.Sprintf("Unknown opcode %s.", op)}
		}
	}
}

func (m *VM) push(v machine.Value, line int) error {
	if len(m.stack) >= stackMax {
		return &RuntimeError{Line: line, Msg: "Stack overflow."}
	}
	m.stack = append(m.stack, v)
	return nil
}

func (m *VM) pop() machine.Value {
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

func (m *VM) popNum(line int) (machine.Num, error) {
	v := m.pop()
	n, ok := v.(machine.Num)
	if !ok {
		return 0, &RuntimeError{Line: line, Msg: "Operand must be a number."}
	}
	return n, nil
}

// popNumPair pops the top two values off the stack and requires both to be
// Num. It returns them as (b, a): b is the right operand (the top of the
// stack), a the left one.
func (m *VM) popNumPair(line int) (b, a machine.Num, err error) {
	bv := m.pop()
	av := m.pop()
	bn, bok := bv.(machine.Num)
	an, aok := av.(machine.Num)
	if !aok || !bok {
		return 0, 0, &RuntimeError{Line: line, Msg: "Operands must be numbers."}
	}
	return bn, an, nil
}

// addValues implements the permissive `+` overload shared with the
// tree-walking evaluator: Num+Num adds, Str+Str concatenates, and a Str
// mixed with a Num (in either order) concatenates both operands' string
// forms. Any other mix is an error.
func addValues(a, b machine.Value, line int) (machine.Value, error) {
	an, aNum := a.(machine.Num)
	bn, bNum := b.(machine.Num)
	if aNum && bNum {
		return an + bn, nil
	}
	_, aStr := a.(machine.Str)
	_, bStr := b.(machine.Str)
	if (aStr && (bStr || bNum)) || (aNum && bStr) {
		return machine.Str(a.String() + b.String()), nil
	}
	return nil, &RuntimeError{Line: line, Msg: "Operands must be two numbers or two strings."}
}
