package maincmd

import (
	"context"
	"fmt"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/resolver"
	"github.com/mna/mainer"
)

// Resolve runs the scanner, parser and resolver over the file named by
// args[0] and prints the syntax tree followed by the resolved binding
// table, one "exprID -> distance" pair per line in ascending ExprID order
// so the output is deterministic across runs.
func (c *Cmd) Resolve(_ context.Context, stdio mainer.Stdio, args []string) mainer.ExitCode {
	stmts, code := scanAndParse(stdio, args[0])
	if code != mainer.Success {
		return code
	}

	locals, err := resolver.Resolve(stmts)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(65)
	}

	fmt.Fprint(stdio.Stdout, ast.PrintProgram(stmts))
	for _, id := range resolver.SortedIDs(locals) {
		fmt.Fprintf(stdio.Stdout, "local %d -> %d\n", id, locals[id])
	}
	return mainer.Success
}
