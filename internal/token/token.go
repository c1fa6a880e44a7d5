package token

import "fmt"

// Type is the type of a token.
type Type string

// Token is one logical line of INI source. Continuation lines are already
// joined into a single token by the lexer.
type Token struct {
	Type    Type
	Literal string
	Line    int // line of the first physical line, 1-based
	Column  int // column of the first non-blank character, 1-based
}

const (
	// Special tokens
	ILLEGAL Type = "ILLEGAL" // An unknown or invalid line
	EOF     Type = "EOF"     // End of file

	// Line kinds
	BLANK   Type = "BLANK"   // empty or whitespace-only line
	COMMENT Type = "COMMENT" // # a comment
	SECTION Type = "SECTION" // [name]
	OPTION  Type = "OPTION"  // name = value
)

// Comment markers recognized at the start of a line.
const (
	Hash      = '#'
	Semicolon = ';'
)

// IsCommentMarker reports whether ch starts a comment.
func IsCommentMarker(ch rune) bool {
	return ch == Hash || ch == Semicolon
}

// Lookup classifies a trimmed, non-empty line by its first character.
func Lookup(first rune) Type {
	switch {
	case IsCommentMarker(first):
		return COMMENT
	case first == '[':
		return SECTION
	default:
		return OPTION
	}
}

// Error is a syntax error at a position in the source.
type Error struct {
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ini: parsing error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Errorf returns an *Error positioned at tok, offset columns to the right.
func Errorf(tok Token, offset int, format string, args ...any) *Error {
	return &Error{
		Line:   tok.Line,
		Column: tok.Column + offset,
		Msg:    fmt.Sprintf(format, args...),
	}
}
