package maincmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/machine"
	"github.com/loxlang/lox/lang/parser"
	"github.com/loxlang/lox/lang/resolver"
	"github.com/loxlang/lox/lang/scanner"
	"github.com/mna/mainer"
)

// Repl reads one line at a time from stdin and runs it through the full
// pipeline: each prompt gets a fresh error flag (a parse error on one line
// does not poison the next), and the loop shares one Interpreter so
// top-level `var` declarations persist across lines the way a REPL user
// expects. Empty input exits.
func (c *Cmd) Repl(_ context.Context, stdio mainer.Stdio, _ []string) mainer.ExitCode {
	in := machine.New(nil, stdio.Stdout)
	scan := bufio.NewScanner(stdio.Stdin)

	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scan.Scan() {
			return mainer.Success
		}
		line := scan.Text()
		if line == "" {
			return mainer.Success
		}

		toks, err := scanner.ScanAll([]byte(line))
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		stmts, err := parser.Parse(toks)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		locals, err := resolver.Resolve(stmts)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		in.Locals = mergeLocals(in.Locals, locals)

		if err := in.Interpret(stmts); err != nil {
			if rerr, ok := err.(*machine.RuntimeError); ok {
				fmt.Fprintln(stdio.Stderr, rerr.Diagnostic())
			} else {
				fmt.Fprintln(stdio.Stderr, err)
			}
		}
	}
}

// mergeLocals combines the binding distances resolved for one REPL line
// into the interpreter's running table. ast.ExprID is monotonically
// increasing across the whole process (see ast.NextExprID), so successive
// lines never collide.
func mergeLocals(into, from resolver.Locals) resolver.Locals {
	if into == nil {
		return from
	}
	for id, dist := range from {
		into[id] = dist
	}
	return into
}
