package compiler

import (
	"testing"

	"github.com/loxlang/lox/lang/machine"
	"github.com/loxlang/lox/lang/scanner"
	"github.com/stretchr/testify/require"
)

func compileSrc(t *testing.T, src string) *Chunk {
	t.Helper()
	toks, err := scanner.ScanAll([]byte(src))
	require.NoError(t, err)
	chunk, err := Compile(toks)
	require.NoError(t, err)
	return chunk
}

func TestCompileLiteral(t *testing.T) {
	chunk := compileSrc(t, "1")
	require.Equal(t, []byte{byte(OpConstant), 0, byte(OpReturn)}, chunk.Code)
	require.Equal(t, machine.Num(1), chunk.Constants[0])
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	chunk := compileSrc(t, "1 + 2 * 3")
	require.Equal(t, []byte{
		byte(OpConstant), 0,
		byte(OpConstant), 1,
		byte(OpConstant), 2,
		byte(OpMultiply),
		byte(OpAdd),
		byte(OpReturn),
	}, chunk.Code)
}

func TestCompileGrouping(t *testing.T) {
	chunk := compileSrc(t, "(1 + 2) * 3")
	require.Equal(t, []byte{
		byte(OpConstant), 0,
		byte(OpConstant), 1,
		byte(OpAdd),
		byte(OpConstant), 2,
		byte(OpMultiply),
		byte(OpReturn),
	}, chunk.Code)
}

func TestCompileUnary(t *testing.T) {
	chunk := compileSrc(t, "-1")
	require.Equal(t, []byte{byte(OpConstant), 0, byte(OpNegate), byte(OpReturn)}, chunk.Code)
}

func TestCompileNotEqualDesugarsToEqualNot(t *testing.T) {
	chunk := compileSrc(t, `1 != 2`)
	require.Equal(t, []byte{
		byte(OpConstant), 0,
		byte(OpConstant), 1,
		byte(OpEqual),
		byte(OpNot),
		byte(OpReturn),
	}, chunk.Code)
}

func TestCompileUnterminatedExpressionErrors(t *testing.T) {
	toks, err := scanner.ScanAll([]byte("1 +"))
	require.NoError(t, err)
	_, err = Compile(toks)
	require.Error(t, err)
}

func TestCompileTrailingTokenErrors(t *testing.T) {
	toks, err := scanner.ScanAll([]byte("1 1"))
	require.NoError(t, err)
	_, err = Compile(toks)
	require.Error(t, err)
}
