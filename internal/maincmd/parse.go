package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/parser"
	"github.com/loxlang/lox/lang/scanner"
	"github.com/mna/mainer"
)

// Parse runs the scanner and parser over the file named by args[0] and
// prints the resulting syntax tree using the classic Lox AstPrinter's
// parenthesized Lisp-like notation.
func (c *Cmd) Parse(_ context.Context, stdio mainer.Stdio, args []string) mainer.ExitCode {
	stmts, code := scanAndParse(stdio, args[0])
	if code != mainer.Success {
		return code
	}
	fmt.Fprint(stdio.Stdout, ast.PrintProgram(stmts))
	return mainer.Success
}

// scanAndParse is shared by the run, parse and resolve subcommands. The
// scanner never stops at the first bad character — it emits an inline
// token.ERROR lexeme and keeps going — so the parser always runs over the
// full token stream and accumulates its own diagnostics alongside the
// scanner's instead of being skipped whenever a scan error occurred.
func scanAndParse(stdio mainer.Stdio, path string) ([]ast.Stmt, mainer.ExitCode) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, mainer.ExitCode(74)
	}

	toks, scanErr := scanner.ScanAll(src)
	stmts, parseErr := parser.Parse(toks)

	if scanErr != nil {
		fmt.Fprintln(stdio.Stderr, scanErr)
	}
	if parseErr != nil {
		fmt.Fprintln(stdio.Stderr, parseErr)
	}
	if scanErr != nil || parseErr != nil {
		return nil, mainer.ExitCode(65)
	}
	return stmts, mainer.Success
}
