package parser

import (
	"testing"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/scanner"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	toks, err := scanner.ScanAll([]byte(src))
	require.NoError(t, err)
	stmts, err := Parse(toks)
	require.NoError(t, err)
	return stmts
}

func TestParsePrecedence(t *testing.T) {
	stmts := parseSrc(t, "print 1 + 2 * 3;")
	require.Len(t, stmts, 1)
	pr := stmts[0].(*ast.Print)
	require.Equal(t, "(+ 1 (* 2 3))", ast.PrintExpr(pr.Expr))
}

func TestParseAssignmentRewrite(t *testing.T) {
	stmts := parseSrc(t, "a = 1;")
	expr := stmts[0].(*ast.Expression).Expr
	assign, ok := expr.(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "a", assign.Name.Text)
}

func TestParseSetRewrite(t *testing.T) {
	stmts := parseSrc(t, "a.b = 1;")
	expr := stmts[0].(*ast.Expression).Expr
	set, ok := expr.(*ast.Set)
	require.True(t, ok)
	require.Equal(t, "b", set.Name.Text)
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	toks, err := scanner.ScanAll([]byte("1 + 2 = 3;"))
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
}

func TestParseForDesugars(t *testing.T) {
	stmts := parseSrc(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Len(t, stmts, 1)
	block, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Stmts, 2)
	_, ok = block.Stmts[0].(*ast.Var)
	require.True(t, ok)
	whileStmt, ok := block.Stmts[1].(*ast.While)
	require.True(t, ok)
	innerBlock, ok := whileStmt.Body.(*ast.Block)
	require.True(t, ok)
	require.Len(t, innerBlock.Stmts, 2)
}

func TestParseForMissingConditionIsTrue(t *testing.T) {
	stmts := parseSrc(t, "for (;;) print 1;")
	block := stmts[0].(*ast.Block)
	// no initializer: the statement directly is the While
	whileStmt, ok := block.Stmts[0].(*ast.While)
	require.True(t, ok)
	lit, ok := whileStmt.Cond.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, true, lit.Value)
}

func TestParseClassWithSuperclass(t *testing.T) {
	stmts := parseSrc(t, "class B < A { speak() { print 1; } }")
	cls := stmts[0].(*ast.Class)
	require.NotNil(t, cls.Superclass)
	require.Equal(t, "A", cls.Superclass.Name.Text)
	require.Len(t, cls.Methods, 1)
	require.Equal(t, "speak", cls.Methods[0].Name.Text)
}

func TestParseTooManyArguments(t *testing.T) {
	src := "f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ","
		}
		src += "1"
	}
	src += ");"
	toks, err := scanner.ScanAll([]byte(src))
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
}

func TestParsePanicModeRecoversAtNextDeclaration(t *testing.T) {
	toks, err := scanner.ScanAll([]byte("var = ; var y = 1;"))
	require.NoError(t, err)
	stmts, err := Parse(toks)
	require.Error(t, err)
	// the well-formed second declaration should still have parsed
	require.Len(t, stmts, 1)
	v, ok := stmts[0].(*ast.Var)
	require.True(t, ok)
	require.Equal(t, "y", v.Name.Text)
}
