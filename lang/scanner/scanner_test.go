package scanner

import (
	"testing"

	"github.com/loxlang/lox/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(lxs []Lexeme) []token.Token {
	out := make([]token.Token, len(lxs))
	for i, lx := range lxs {
		out[i] = lx.Kind
	}
	return out
}

func TestScanAllPunctuationAndKeywords(t *testing.T) {
	lxs, err := ScanAll([]byte(`var a = (1 + 2) * 3; // comment
print a >= 1 and !false;`))
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.VAR, token.IDENT, token.EQ, token.LPAREN, token.NUMBER, token.PLUS, token.NUMBER,
		token.RPAREN, token.STAR, token.NUMBER, token.SEMI,
		token.PRINT, token.IDENT, token.GT_EQ, token.NUMBER, token.AND, token.BANG, token.FALSE, token.SEMI,
		token.EOF,
	}, kinds(lxs))
}

func TestScanStringLiteral(t *testing.T) {
	lxs, err := ScanAll([]byte(`"hello\nworld"`))
	require.NoError(t, err)
	require.Len(t, lxs, 2)
	assert.Equal(t, token.STRING, lxs[0].Kind)
	assert.Equal(t, `hello\nworld`, lxs[0].Literal)
}

func TestScanMultilineString(t *testing.T) {
	lxs, err := ScanAll([]byte("\"a\nb\" 1"))
	require.NoError(t, err)
	require.Len(t, lxs, 3)
	assert.Equal(t, "a\nb", lxs[0].Literal)
	line, _ := lxs[1].Pos.LineCol()
	assert.Equal(t, 2, line)
}

func TestScanNumber(t *testing.T) {
	lxs, err := ScanAll([]byte("123 45.67"))
	require.NoError(t, err)
	require.Len(t, lxs, 3)
	assert.Equal(t, 123.0, lxs[0].Literal)
	assert.Equal(t, 45.67, lxs[1].Literal)
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := ScanAll([]byte(`"unterminated`))
	require.Error(t, err)
	el, ok := err.(token.ErrorList)
	require.True(t, ok)
	require.Len(t, el, 1)
	assert.Contains(t, el[0].Msg, "Unterminated string.")
}

func TestScanUnexpectedCharacter(t *testing.T) {
	_, err := ScanAll([]byte("@"))
	require.Error(t, err)
	el := err.(token.ErrorList)
	assert.Contains(t, el[0].Msg, "Unexpected character.")
}

func TestScanIdentifiersNotKeywords(t *testing.T) {
	lxs, err := ScanAll([]byte("orchid classroom"))
	require.NoError(t, err)
	assert.Equal(t, token.IDENT, lxs[0].Kind)
	assert.Equal(t, token.IDENT, lxs[1].Kind)
}
