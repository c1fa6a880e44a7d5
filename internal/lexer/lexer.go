package lexer

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/KimNorgaard/go-ini/internal/escape"
	"github.com/KimNorgaard/go-ini/internal/token"
)

// blanks are trimmed from the end of a logical line.
const blanks = " \t\r"

// Lexer splits INI source into logical lines and classifies them.
type Lexer struct {
	r      *bufio.Reader
	line   int // number of the next physical line
	escape bool
	eof    bool
}

// New creates and returns a new Lexer. When escape is true a line ending in
// an unescaped backslash is joined with the following physical line.
func New(r io.Reader, escape bool) *Lexer {
	return &Lexer{
		r:      bufio.NewReader(r),
		line:   1,
		escape: escape,
	}
}

// NextToken returns the next logical line. The error is only non-nil when
// the underlying reader fails; malformed content is reported by the parser.
func (l *Lexer) NextToken() (token.Token, error) {
	raw, line, ok, err := l.readLine()
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Line: line}, err
	}
	if !ok {
		return token.Token{Type: token.EOF, Line: line, Column: 1}, nil
	}

	trimmed := strings.TrimLeft(raw, " \t")
	tok := token.Token{Line: line, Column: 1 + len(raw) - len(trimmed)}
	if strings.TrimRight(trimmed, blanks) == "" {
		tok.Type = token.BLANK
		return tok, nil
	}

	first, _ := utf8.DecodeRuneInString(trimmed)
	tok.Type = token.Lookup(first)
	if tok.Type == token.COMMENT {
		tok.Literal = trimmed[1:]
		return tok, nil
	}

	for l.escape && escape.Continued(trimmed) {
		next, _, ok, err := l.readLine()
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Line: line}, err
		}
		trimmed = trimmed[:len(trimmed)-1]
		if !ok {
			break
		}
		trimmed += strings.TrimLeft(next, " \t")
	}
	tok.Literal = strings.TrimRight(trimmed, blanks)
	return tok, nil
}

// readLine returns the next physical line without its terminator and the
// line number it started on. ok is false at end of input.
func (l *Lexer) readLine() (s string, line int, ok bool, err error) {
	line = l.line
	if l.eof {
		return "", line, false, nil
	}
	s, err = l.r.ReadString('\n')
	if errors.Is(err, io.EOF) {
		l.eof = true
		if s == "" {
			return "", line, false, nil
		}
	} else if err != nil {
		return "", line, false, err
	}
	l.line++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimRight(s, "\r")
	return s, line, true, nil
}
