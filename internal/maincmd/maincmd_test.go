package maincmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stdio() (mainer.Stdio, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return mainer.Stdio{Stdout: &out, Stderr: &errOut}, &out, &errOut
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunSuccess(t *testing.T) {
	path := writeScript(t, `print 1 + 2;`)
	sio, out, _ := stdio()
	var c Cmd
	code := c.Run(nil, sio, []string{path})
	assert.Equal(t, mainer.Success, code)
	assert.Equal(t, "3\n", out.String())
}

func TestRunRuntimeErrorExitCode(t *testing.T) {
	path := writeScript(t, `"a" - 1;`)
	sio, _, errOut := stdio()
	var c Cmd
	code := c.Run(nil, sio, []string{path})
	assert.Equal(t, mainer.ExitCode(70), code)
	assert.Contains(t, errOut.String(), "Operands must be numbers.")
}

func TestRunParseErrorExitCode(t *testing.T) {
	path := writeScript(t, `var = 1;`)
	sio, _, _ := stdio()
	var c Cmd
	code := c.Run(nil, sio, []string{path})
	assert.Equal(t, mainer.ExitCode(65), code)
}

func TestRunMissingFileExitCode(t *testing.T) {
	sio, _, _ := stdio()
	var c Cmd
	code := c.Run(nil, sio, []string{filepath.Join(t.TempDir(), "missing.lox")})
	assert.Equal(t, mainer.ExitCode(74), code)
}

func TestTokenizePrintsTokens(t *testing.T) {
	path := writeScript(t, `1 + 2`)
	sio, out, _ := stdio()
	var c Cmd
	code := c.Tokenize(nil, sio, []string{path})
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "number")
	assert.Contains(t, out.String(), "+")
}

func TestParsePrintsSyntaxTree(t *testing.T) {
	path := writeScript(t, `print 1 + 2 * 3;`)
	sio, out, _ := stdio()
	var c Cmd
	code := c.Parse(nil, sio, []string{path})
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "(+ 1 (* 2 3))")
}

func TestResolvePrintsBindingTable(t *testing.T) {
	path := writeScript(t, `fun f() { var a = 1; { print a; } }`)
	sio, out, _ := stdio()
	var c Cmd
	code := c.Resolve(nil, sio, []string{path})
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "local")
}

func TestValidateDispatchesSubcommands(t *testing.T) {
	var c Cmd
	c.SetArgs([]string{"tokenize", "foo.lox"})
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{"foo.lox"}, c.cmdArgs)
}

func TestValidateNoArgsIsRepl(t *testing.T) {
	var c Cmd
	c.SetArgs(nil)
	require.NoError(t, c.Validate())
}

func TestValidateOneArgIsRun(t *testing.T) {
	var c Cmd
	c.SetArgs([]string{"foo.lox"})
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{"foo.lox"}, c.cmdArgs)
}

func TestValidateTooManyArgsErrors(t *testing.T) {
	var c Cmd
	c.SetArgs([]string{"foo.lox", "bar.lox"})
	assert.Error(t, c.Validate())
}
