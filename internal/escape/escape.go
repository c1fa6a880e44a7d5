// Package escape implements the backslash escape table shared by the INI
// lexer, parser and formatter.
package escape

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"
)

// Literal lists the syntax characters that may be escaped to strip their
// meaning, in addition to the backslash itself.
const Literal = `=:;#[]"'`

// Unescape replaces escape sequences in s. On failure it returns the byte
// offset of the offending backslash.
func Unescape(s string) (string, int, error) {
	i := strings.IndexByte(s, '\\')
	if i < 0 {
		return s, 0, nil
	}
	var sb strings.Builder
	sb.Grow(len(s))
	sb.WriteString(s[:i])
	for ; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", i, fmt.Errorf("unexpected end of escape sequence")
		}
		start := i
		i++
		switch c = s[i]; c {
		case '\\':
			sb.WriteByte('\\')
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'u':
			r, n, err := readUnicode(s[i+1:])
			if err != nil {
				return "", start, err
			}
			sb.WriteRune(r)
			i += n
		default:
			if strings.IndexByte(Literal, c) < 0 {
				return "", start, fmt.Errorf("invalid escape sequence \\%c", c)
			}
			sb.WriteByte(c)
		}
	}
	return sb.String(), 0, nil
}

// readUnicode decodes the hex digits following a \u and, for a high
// surrogate, the low surrogate escape after it. It returns the number of
// bytes consumed.
func readUnicode(s string) (rune, int, error) {
	r, ok := readHex(s)
	if !ok {
		return 0, 0, fmt.Errorf("invalid unicode escape")
	}
	if !utf16.IsSurrogate(r) {
		return r, 4, nil
	}
	if len(s) >= 10 && s[4] == '\\' && s[5] == 'u' {
		if lo, ok := readHex(s[6:]); ok {
			if dec := utf16.DecodeRune(r, lo); dec != unicode.ReplacementChar {
				return dec, 10, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("invalid unicode scalar value (unpaired surrogate)")
}

func readHex(s string) (rune, bool) {
	if len(s) < 4 {
		return 0, false
	}
	var val rune
	for i := range 4 {
		var d rune
		switch ch := rune(s[i]); {
		case '0' <= ch && ch <= '9':
			d = ch - '0'
		case 'a' <= ch && ch <= 'f':
			d = ch - 'a' + 10
		case 'A' <= ch && ch <= 'F':
			d = ch - 'A' + 10
		default:
			return 0, false
		}
		val = val*16 + d
	}
	return val, true
}

// IndexAny returns the index of the first byte of s that is in chars and not
// escaped by a preceding backslash, or -1. When escaped is false backslashes
// have no meaning.
func IndexAny(s, chars string, escaped bool) int {
	for i := 0; i < len(s); i++ {
		if escaped && s[i] == '\\' {
			i++
			continue
		}
		if strings.IndexByte(chars, s[i]) >= 0 {
			return i
		}
	}
	return -1
}

// Continued reports whether line ends in an unescaped backslash, meaning the
// next physical line continues it.
func Continued(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

const hexDigits = "0123456789abcdef"

// Escape is the inverse of Unescape. Characters listed in specials are
// prefixed with a backslash, and leading or trailing blanks are escaped so
// that trimming on input does not drop them.
func Escape(s, specials string) string {
	if !needsEscape(s, specials) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	last := len(s) - 1
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == 0:
			sb.WriteString(`\0`)
		case c == '\b':
			sb.WriteString(`\b`)
		case c == '\f':
			sb.WriteString(`\f`)
		case c < ' ' || c == 0x7f:
			sb.WriteString(`\u00`)
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0xf])
		case c == ' ' && (i == 0 || i == last):
			sb.WriteString(`\u0020`)
		case strings.IndexByte(specials, c) >= 0:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func needsEscape(s, specials string) bool {
	if s == "" {
		return false
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return true
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c < ' ' || c == 0x7f || strings.IndexByte(specials, c) >= 0 {
			return true
		}
	}
	return false
}

// EscapeBreaks escapes only line feeds, the one character that would split
// a line. It is the fallback used when escaping is disabled.
func EscapeBreaks(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
