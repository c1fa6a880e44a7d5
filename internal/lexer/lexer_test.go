package lexer

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/KimNorgaard/go-ini/internal/token"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, input string, esc bool) []token.Token {
	t.Helper()
	l := New(strings.NewReader(input), esc)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestNextToken(t *testing.T) {
	input := "# header\n\n[section] ; note\n  key = value\r\n;opt\nbare\n"
	expected := []token.Token{
		{Type: token.COMMENT, Literal: " header", Line: 1, Column: 1},
		{Type: token.BLANK, Line: 2, Column: 1},
		{Type: token.SECTION, Literal: "[section] ; note", Line: 3, Column: 1},
		{Type: token.OPTION, Literal: "key = value", Line: 4, Column: 3},
		{Type: token.COMMENT, Literal: "opt", Line: 5, Column: 1},
		{Type: token.OPTION, Literal: "bare", Line: 6, Column: 1},
		{Type: token.EOF, Line: 7, Column: 1},
	}
	require.Equal(t, expected, collect(t, input, true))
}

func TestNextToken_NoTrailingNewline(t *testing.T) {
	toks := collect(t, "[s]\nk=v", true)
	require.Len(t, toks, 3)
	require.Equal(t, "k=v", toks[1].Literal)
	require.Equal(t, token.EOF, toks[2].Type)
}

func TestNextToken_Continuation(t *testing.T) {
	input := "key = first \\\n      second \\\n\tthird\nnext = 1\n"
	toks := collect(t, input, true)
	require.Equal(t, token.OPTION, toks[0].Type)
	require.Equal(t, "key = first second third", toks[0].Literal)
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, "next = 1", toks[1].Literal)
	require.Equal(t, 4, toks[1].Line)
}

func TestNextToken_EscapedBackslashIsNotContinuation(t *testing.T) {
	toks := collect(t, "path = C:\\\\\nother = x\n", true)
	require.Equal(t, `path = C:\\`, toks[0].Literal)
	require.Equal(t, "other = x", toks[1].Literal)
}

func TestNextToken_ContinuationAtEOF(t *testing.T) {
	toks := collect(t, "key = dangling\\", true)
	require.Equal(t, "key = dangling", toks[0].Literal)
	require.Equal(t, token.EOF, toks[1].Type)
}

func TestNextToken_EscapeDisabled(t *testing.T) {
	toks := collect(t, "key = a\\\nb = c\n", false)
	require.Equal(t, `key = a\`, toks[0].Literal)
	require.Equal(t, "b = c", toks[1].Literal)
}

func TestNextToken_CommentsAreNotContinued(t *testing.T) {
	toks := collect(t, "# ends with \\\nkey = v\n", true)
	require.Equal(t, token.COMMENT, toks[0].Type)
	require.Equal(t, " ends with \\", toks[0].Literal)
	require.Equal(t, token.OPTION, toks[1].Type)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestNextToken_ReadError(t *testing.T) {
	l := New(failingReader{}, true)
	_, err := l.NextToken()
	require.EqualError(t, err, "disk on fire")
	require.NotErrorIs(t, err, io.EOF)
}

func TestNextToken_StrayCarriageReturns(t *testing.T) {
	toks := collect(t, "# c\r\r\nk = v\r\r\n", true)
	require.Equal(t, " c", toks[0].Literal)
	require.Equal(t, "k = v", toks[1].Literal)

	toks = collect(t, "k = a\rb\r \r\n\r \n", false)
	require.Equal(t, "k = a\rb", toks[0].Literal)
	require.Equal(t, token.BLANK, toks[1].Type)
}
