package resolver

import (
	"testing"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/parser"
	"github.com/loxlang/lox/lang/scanner"
	"github.com/stretchr/testify/require"
)

func resolveSrc(t *testing.T, src string) (Locals, error) {
	t.Helper()
	ast.ResetExprIDs()
	toks, err := scanner.ScanAll([]byte(src))
	require.NoError(t, err)
	stmts, err := parser.Parse(toks)
	require.NoError(t, err)
	return Resolve(stmts)
}

func TestResolveOwnInitializerError(t *testing.T) {
	_, err := resolveSrc(t, "fun f() { var a = a; }")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Cannot read local variable in its own initializer.")
}

func TestResolveDuplicateLocal(t *testing.T) {
	_, err := resolveSrc(t, "fun f() { var a = 1; var a = 2; }")
	require.Error(t, err)
}

func TestResolveDuplicateGlobalAllowed(t *testing.T) {
	_, err := resolveSrc(t, "var a = 1; var a = 2;")
	require.NoError(t, err)
}

func TestResolveReturnAtTopLevel(t *testing.T) {
	_, err := resolveSrc(t, "return 1;")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't return from top-level code.")
}

func TestResolveReturnValueFromInitializer(t *testing.T) {
	_, err := resolveSrc(t, "class A { init() { return 1; } }")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't return a value from an initializer.")
}

func TestResolveBareReturnFromInitializerAllowed(t *testing.T) {
	_, err := resolveSrc(t, "class A { init() { return; } }")
	require.NoError(t, err)
}

func TestResolveThisOutsideClass(t *testing.T) {
	_, err := resolveSrc(t, "print this;")
	require.Error(t, err)
}

func TestResolveSuperOutsideClass(t *testing.T) {
	_, err := resolveSrc(t, "print super.x;")
	require.Error(t, err)
}

func TestResolveSuperWithNoSuperclass(t *testing.T) {
	_, err := resolveSrc(t, "class A { f() { print super.x; } }")
	require.Error(t, err)
}

func TestResolveSelfInheritance(t *testing.T) {
	_, err := resolveSrc(t, "class A < A {}")
	require.Error(t, err)
}

func TestResolveBindingDistance(t *testing.T) {
	ast.ResetExprIDs()
	toks, err := scanner.ScanAll([]byte("var a = 1; { var a = 2; print a; } print a;"))
	require.NoError(t, err)
	stmts, err := parser.Parse(toks)
	require.NoError(t, err)
	locals, err := Resolve(stmts)
	require.NoError(t, err)

	// The first `print a` is inside the block, referring to the block-local
	// `a` at distance 0. The second `print a` is at top level, referring to
	// the global `a`, which is left unresolved in the side-table.
	block := stmts[1].(*ast.Block)
	innerPrint := block.Stmts[1].(*ast.Print)
	innerVar := innerPrint.Expr.(*ast.Variable)
	dist, ok := locals[innerVar.ID]
	require.True(t, ok)
	require.Equal(t, 0, dist)

	outerPrint := stmts[2].(*ast.Print)
	outerVar := outerPrint.Expr.(*ast.Variable)
	_, ok = locals[outerVar.ID]
	require.False(t, ok)
}
