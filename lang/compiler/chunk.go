package compiler

import "github.com/loxlang/lox/lang/machine"

// Chunk is a unit of compiled bytecode: a flat byte sequence, a parallel
// line table for diagnostics, and a dense constant pool.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []machine.Value
}

// write appends a single byte to the chunk, recording the source line it
// came from at the same index in Lines.
func (c *Chunk) write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// emit appends an operand-less op at line.
func (c *Chunk) emit(op Opcode, line int) {
	c.write(byte(op), line)
}

// emitOperand appends op followed by its single operand byte at line.
func (c *Chunk) emitOperand(op Opcode, operand byte, line int) {
	c.write(byte(op), line)
	c.write(operand, line)
}

// addConstant appends v to the constant pool and returns its index. The
// pool is capped at 256 entries since OpConstant's operand is a single
// byte; a program needing more literals than that is outside the scope of
// this back end, which is a design-only alternative rather than a
// production code path.
func (c *Chunk) addConstant(v machine.Value) (byte, bool) {
	if len(c.Constants) >= 256 {
		return 0, false
	}
	c.Constants = append(c.Constants, v)
	return byte(len(c.Constants) - 1), true
}
