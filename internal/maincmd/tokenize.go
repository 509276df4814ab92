package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/loxlang/lox/lang/scanner"
	"github.com/mna/mainer"
)

// Tokenize runs only the scanner over the file named by args[0] and prints
// each token, one per line, for inspecting the lexer in isolation.
func (c *Cmd) Tokenize(_ context.Context, stdio mainer.Stdio, args []string) mainer.ExitCode {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(74)
	}

	toks, err := scanner.ScanAll(src)
	for _, tok := range toks {
		fmt.Fprintf(stdio.Stdout, "%d %s %q\n", tok.Pos.Line(), tok.Kind, tok.Text)
	}
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(65)
	}
	return mainer.Success
}
