// Package maincmd implements the command-line driver: a REPL when invoked
// with no argument, script execution when invoked with a filename, and
// debug subcommands (tokenize/parse/resolve) to inspect each front-end
// phase in isolation.
//
// A mainer.Cmd-shaped struct with reflection-dispatched subcommands and
// Stdio-threaded error printing, narrowed to this language's five
// subcommands and sysexits-style exit codes.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "lox"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<command>] [<path>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<command>] [<path>]
       %[1]s -h|--help
       %[1]s -v|--version

Tree-walking interpreter for the %[1]s scripting language.

With no <command> and no <path>, starts an interactive REPL. With a single
<path> and no <command>, runs the script at that path.

The <command> can be one of:
       tokenize <path>           Run only the scanner and print the
                                  resulting tokens.
       parse <path>              Run the scanner and parser and print the
                                  resulting syntax tree.
       resolve <path>            Run the scanner, parser and resolver and
                                  print the syntax tree annotated with
                                  variable binding distances.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Cmd is the entry point, shaped to satisfy mainer.Cmd: SetArgs/SetFlags
// populate it from the command line, Validate checks the result, and Main
// dispatches to the selected subcommand.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args    []string
	cmdArgs []string
	cmdFn   func(context.Context, mainer.Stdio, []string) mainer.ExitCode
}

func (c *Cmd) SetArgs(args []string)      { c.args = args }
func (c *Cmd) SetFlags(_ map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		c.cmdFn = c.Repl
		return nil
	}

	commands := buildCmds(c)
	if fn, ok := commands[c.args[0]]; ok {
		rest := c.args[1:]
		if len(rest) != 1 {
			return fmt.Errorf("%s: exactly one path must be provided", c.args[0])
		}
		c.cmdFn = fn
		c.cmdArgs = rest
		return nil
	}

	if len(c.args) != 1 {
		return errors.New("usage: lox [<command>] [<path>]")
	}
	c.cmdFn = c.Run
	c.cmdArgs = c.args
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(64)
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	return c.cmdFn(ctx, stdio, c.cmdArgs)
}

// buildCmds reflects over v's methods to find the debug subcommands
// (those taking a context.Context, a mainer.Stdio and a []string and
// returning a mainer.ExitCode), keyed by lowercased method name.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) mainer.ExitCode {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) mainer.ExitCode)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if mt.Out(0).Name() != "ExitCode" {
			continue
		}
		if p1 := mt.In(1); p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		name := strings.ToLower(m.Name)
		if name == "run" || name == "repl" {
			continue
		}
		cmds[name] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) mainer.ExitCode)
	}
	return cmds
}
