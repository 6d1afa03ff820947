package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splc/internal/splerr"
)

func TestLexKeywordsAndPunctuation(t *testing.T) {
	tokens, err := Lex("array else if of proc ref type var while ( ) [ ] { }")
	require.NoError(t, err)

	want := []TokenType{ARRAY, ELSE, IF, OF, PROC, REF, TYPE, VAR, WHILE,
		LPAREN, RPAREN, LBRACK, RBRACK, LCURL, RCURL, EOF}
	require.Len(t, tokens, len(want))
	for i, tt := range want {
		assert.Equal(t, tt, tokens[i].Type, "token %d", i)
	}
}

func TestLexOperators(t *testing.T) {
	tokens, err := Lex(":= = # < <= > >= : , ; + - * /")
	require.NoError(t, err)

	want := []TokenType{ASGN, EQ, NE, LT, LE, GT, GE, COLON, COMMA, SEMIC, PLUS, MINUS, STAR, SLASH, EOF}
	require.Len(t, tokens, len(want))
	for i, tt := range want {
		assert.Equal(t, tt, tokens[i].Type, "token %d", i)
	}
}

func TestLexIdentifierAndIntLiteral(t *testing.T) {
	tokens, err := Lex("myVar 42")
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	assert.Equal(t, IDENT, tokens[0].Type)
	assert.Equal(t, "myVar", tokens[0].Lexeme)

	assert.Equal(t, INTLIT, tokens[1].Type)
	assert.Equal(t, 42, tokens[1].Value)
}

func TestLexSkipsLineAndBlockComments(t *testing.T) {
	tokens, err := Lex("a // line comment\nb /* block\ncomment */ c")
	require.NoError(t, err)
	require.Len(t, tokens, 4) // a, b, c, EOF
	assert.Equal(t, "a", tokens[0].Lexeme)
	assert.Equal(t, "b", tokens[1].Lexeme)
	assert.Equal(t, "c", tokens[2].Lexeme)
}

func TestLexTracksLineNumbers(t *testing.T) {
	tokens, err := Lex("a\nb\n\nc")
	require.NoError(t, err)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 4, tokens[2].Line)
}

func TestLexUnterminatedBlockCommentIsSyntaxError(t *testing.T) {
	_, err := Lex("/* never closes")
	require.Error(t, err)
	assert.Equal(t, splerr.ExitSyntax, splerr.CodeOf(err))
}

func TestLexApostropheIsIllegal(t *testing.T) {
	_, err := Lex("'x'")
	require.Error(t, err)
	assert.Equal(t, splerr.ExitLexical, splerr.CodeOf(err))
}

func TestLexUnknownCharacterIsIllegal(t *testing.T) {
	_, err := Lex("@")
	require.Error(t, err)
	assert.Equal(t, splerr.ExitLexical, splerr.CodeOf(err))
}

func TestTokenDescribe(t *testing.T) {
	tokens, err := Lex("foo 7")
	require.NoError(t, err)
	assert.Equal(t, `TOKEN = IDENT in line 1, value = "foo"`, tokens[0].Describe())
	assert.Equal(t, "TOKEN = INTLIT in line 1, value = 7", tokens[1].Describe())
}
