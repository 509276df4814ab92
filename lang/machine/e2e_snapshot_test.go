package machine

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/parser"
	"github.com/loxlang/lox/lang/resolver"
	"github.com/loxlang/lox/lang/scanner"
	"github.com/stretchr/testify/require"
)

// TestEndToEndScenarios snapshots the stdout produced by running each
// worked scenario end to end, the way CWBudde-go-dws's
// internal/interp/fixture_test.go snapshots interpreter output against
// golden files instead of inlining the expected text in the test body.
func TestEndToEndScenarios(t *testing.T) {
	scenarios := []struct {
		name string
		src  string
	}{
		{"arithmetic_precedence", `print 1 + 2 * 3;`},
		{"string_number_concat", `var a = "hi"; var b = 2; print a + b;`},
		{"closure_counter", `fun make() { var i = 0; fun inc() { i = i + 1; print i; } return inc; } var c = make(); c(); c(); c();`},
		{"inheritance_super", `class A { speak() { print "A"; } } class B < A { speak() { super.speak(); print "B"; } } B().speak();`},
		{"block_scoping", `var a = 1; { var a = 2; print a; } print a;`},
		{"for_loop_desugaring", `for (var i = 0; i < 3; i = i + 1) print i;`},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			ast.ResetExprIDs()
			toks, err := scanner.ScanAll([]byte(sc.src))
			require.NoError(t, err)
			stmts, err := parser.Parse(toks)
			require.NoError(t, err)
			locals, err := resolver.Resolve(stmts)
			require.NoError(t, err)

			var out bytes.Buffer
			in := New(locals, &out)
			require.NoError(t, in.Interpret(stmts))

			snaps.MatchSnapshot(t, sc.name+"_output", out.String())
		})
	}
}

// TestEndToEndErrorScenarios snapshots the diagnostic text for a runtime
// type error and a resolve-time "own initializer" error.
func TestEndToEndErrorScenarios(t *testing.T) {
	t.Run("runtime_type_error", func(t *testing.T) {
		ast.ResetExprIDs()
		toks, err := scanner.ScanAll([]byte(`"a" - 1;`))
		require.NoError(t, err)
		stmts, err := parser.Parse(toks)
		require.NoError(t, err)
		locals, err := resolver.Resolve(stmts)
		require.NoError(t, err)

		var out bytes.Buffer
		in := New(locals, &out)
		err = in.Interpret(stmts)
		require.Error(t, err)
		rerr := err.(*RuntimeError)
		snaps.MatchSnapshot(t, "runtime_type_error_diagnostic", rerr.Diagnostic())
	})

	t.Run("own_initializer_resolve_error", func(t *testing.T) {
		ast.ResetExprIDs()
		toks, err := scanner.ScanAll([]byte(`fun f() { var a = a; }`))
		require.NoError(t, err)
		stmts, err := parser.Parse(toks)
		require.NoError(t, err)
		_, err = resolver.Resolve(stmts)
		require.Error(t, err)
		snaps.MatchSnapshot(t, "own_initializer_resolve_error_diagnostic", err.Error())
	})
}
