package machine

import (
	"testing"

	"github.com/loxlang/lox/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lex(name string) token.Lexeme {
	return token.Lexeme{Kind: token.IDENT, Text: name, Pos: token.MakePos(1, 1)}
}

func TestEnvironmentDefineGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", Num(1))
	v, err := env.Get(lex("a"))
	require.NoError(t, err)
	assert.Equal(t, Num(1), v)
}

func TestEnvironmentGetUndefined(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get(lex("missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'missing'.")
}

func TestEnvironmentShadowing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", Num(1))
	inner := NewEnvironment(outer)
	inner.Define("a", Num(2))

	v, err := inner.Get(lex("a"))
	require.NoError(t, err)
	assert.Equal(t, Num(2), v)

	v, err = outer.Get(lex("a"))
	require.NoError(t, err)
	assert.Equal(t, Num(1), v)
}

func TestEnvironmentAssignWritesNearestBinding(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", Num(1))
	inner := NewEnvironment(outer)

	require.NoError(t, inner.Assign(lex("a"), Num(5)))
	v, err := outer.Get(lex("a"))
	require.NoError(t, err)
	assert.Equal(t, Num(5), v)
}

func TestEnvironmentAssignUndefinedFails(t *testing.T) {
	env := NewEnvironment(nil)
	err := env.Assign(lex("missing"), Num(1))
	require.Error(t, err)
}

func TestEnvironmentGetAtAssignAt(t *testing.T) {
	root := NewEnvironment(nil)
	root.Define("a", Num(1))
	mid := NewEnvironment(root)
	leaf := NewEnvironment(mid)

	assert.Equal(t, Num(1), leaf.GetAt(2, "a"))
	leaf.AssignAt(2, "a", Num(9))
	assert.Equal(t, Num(9), root.GetAt(0, "a"))
}

func TestEnvironmentGetAtPastDepthPanics(t *testing.T) {
	root := NewEnvironment(nil)
	assert.Panics(t, func() {
		root.GetAt(1, "a")
	})
}
