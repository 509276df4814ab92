package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenString(t *testing.T) {
	assert.Equal(t, "+", PLUS.String())
	assert.Equal(t, "and", AND.String())
	assert.Equal(t, "end of file", EOF.String())
	assert.Equal(t, "unknown token", Token(127).String())
}

func TestTokenGoString(t *testing.T) {
	assert.Equal(t, "'+'", PLUS.GoString())
	assert.Equal(t, "'while'", WHILE.GoString())
	assert.Equal(t, "identifier", IDENT.GoString())
}

func TestKeywords(t *testing.T) {
	for word, want := range Keywords {
		assert.Equal(t, want, Keywords[word])
	}
	_, ok := Keywords["notakeyword"]
	assert.False(t, ok)
}

func TestPos(t *testing.T) {
	p := MakePos(3, 7)
	line, col := p.LineCol()
	assert.Equal(t, 3, line)
	assert.Equal(t, 7, col)
	assert.Equal(t, 3, p.Line())
	assert.False(t, p.Unknown())
	assert.True(t, NoPos.Unknown())
}
