package maincmd

import (
	"context"
	"fmt"

	"github.com/loxlang/lox/lang/machine"
	"github.com/loxlang/lox/lang/resolver"
	"github.com/mna/mainer"
)

// Run executes the script named by args[0] to completion, mapping failures
// to exit codes: 65 for scan/parse/resolve errors, 70 for a runtime error,
// 74 if the file cannot be read.
func (c *Cmd) Run(_ context.Context, stdio mainer.Stdio, args []string) mainer.ExitCode {
	stmts, code := scanAndParse(stdio, args[0])
	if code != mainer.Success {
		return code
	}

	locals, err := resolver.Resolve(stmts)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(65)
	}

	in := machine.New(locals, stdio.Stdout)
	if err := in.Interpret(stmts); err != nil {
		if rerr, ok := err.(*machine.RuntimeError); ok {
			fmt.Fprintln(stdio.Stderr, rerr.Diagnostic())
		} else {
			fmt.Fprintln(stdio.Stderr, err)
		}
		return mainer.ExitCode(70)
	}
	return mainer.Success
}
