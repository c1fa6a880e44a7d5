package parser

import (
	"fmt"
	"strings"

	"github.com/KimNorgaard/go-ini/internal/escape"
	"github.com/KimNorgaard/go-ini/internal/lexer"
	"github.com/KimNorgaard/go-ini/internal/token"
)

// Options selects the dialect recognized by the parser.
type Options struct {
	Operator          rune
	StrictOperator    bool
	EmptyOption       bool
	EmptySection      bool
	Escape            bool
	Comment           bool
	HeaderComment     bool
	InlineComment     bool
	GlobalSection     bool
	GlobalSectionName string
	LowerCaseSection  bool
	LowerCaseOption   bool
	Include           bool
}

// Handler receives the document structure as it is recognized.
type Handler interface {
	// HeaderComment is called at most once, before any section or option.
	HeaderComment(text string)
	// Section is called for every section header.
	Section(name, comment string)
	// Option is called for every option line, after the Section it belongs to.
	Option(name, value, comment string)
	// Include is called for include directives when Options.Include is set.
	// Returning false keeps the directive as an ordinary option.
	Include(name string) (bool, error)
}

// Parser holds the state of the parser.
type Parser struct {
	l    *lexer.Lexer
	opts Options

	operators string
	comment   []string // comment lines of the block being read
	last      *string  // last complete comment block, not yet attached
	header    bool     // no header comment, section or option seen yet
	inSection bool
}

// New creates a new parser.
func New(l *lexer.Lexer, opts Options) *Parser {
	if opts.Operator == 0 {
		opts.Operator = '='
	}
	ops := string(opts.Operator)
	if !opts.StrictOperator {
		for _, op := range "=:" {
			if op != opts.Operator {
				ops += string(op)
			}
		}
	}
	return &Parser{
		l:         l,
		opts:      opts,
		operators: ops,
		header:    true,
	}
}

// Parse reads the whole input, reporting its structure to h. It stops at the
// first error: a *token.Error for malformed input, the reader's error for
// I/O failures, or whatever h.Include returned.
func (p *Parser) Parse(h Handler) error {
	for {
		tok, err := p.l.NextToken()
		if err != nil {
			return err
		}
		switch tok.Type {
		case token.EOF:
			// A document of nothing but comments has a header comment.
			if p.header {
				p.closeComment(h, true)
			}
			return nil
		case token.BLANK:
			p.closeComment(h, true)
		case token.COMMENT:
			if p.opts.Comment {
				p.comment = append(p.comment, tok.Literal)
			}
		case token.SECTION:
			p.closeComment(h, false)
			if err := p.parseSection(tok, h); err != nil {
				return err
			}
		case token.OPTION:
			p.closeComment(h, false)
			if err := p.parseOption(tok, h); err != nil {
				return err
			}
		default:
			return token.Errorf(tok, 0, "unexpected %s", tok.Type)
		}
	}
}

// closeComment ends the comment block being read. The first block of the
// document becomes the header comment when a blank line ends it; any other
// block waits for the next section or option.
func (p *Parser) closeComment(h Handler, blank bool) {
	if len(p.comment) == 0 {
		return
	}
	text := strings.Join(p.comment, "\n")
	p.comment = nil
	if blank && p.header {
		p.headerComment(h, text)
		return
	}
	p.last = &text
}

func (p *Parser) headerComment(h Handler, text string) {
	if p.opts.HeaderComment {
		h.HeaderComment(text)
	}
	p.header = false
}

// takeComment returns the pending comment for the entity being started.
func (p *Parser) takeComment() string {
	p.header = false
	if p.last == nil {
		return ""
	}
	text := *p.last
	p.last = nil
	return text
}

func (p *Parser) parseSection(tok token.Token, h Handler) error {
	body := tok.Literal[1:]
	end := escape.IndexAny(body, "]", p.opts.Escape)
	if end < 0 {
		return token.Errorf(tok, len(tok.Literal), "unterminated section header")
	}
	// Brackets may appear inside the name, as in indexed paths; the header
	// ends at the first ']' followed by nothing or a comment.
	for next := end; next >= 0; {
		if rest := strings.TrimLeft(body[next+1:], " \t"); rest == "" || token.IsCommentMarker(rune(rest[0])) {
			end = next
			break
		}
		i := escape.IndexAny(body[next+1:], "]", p.opts.Escape)
		if i < 0 {
			break
		}
		next += 1 + i
	}

	var inline string
	hasInline := false
	if rest := strings.TrimLeft(body[end+1:], " \t"); rest != "" {
		if !token.IsCommentMarker(rune(rest[0])) {
			return token.Errorf(tok, len(tok.Literal)-len(rest), "unexpected characters after section header")
		}
		inline, hasInline = rest[1:], p.opts.Comment
	}

	raw := strings.Trim(body[:end], " \t")
	name, err := p.unescape(tok, raw, 1+strings.Index(body, raw))
	if err != nil {
		return err
	}
	if name == "" && !p.opts.EmptySection {
		return token.Errorf(tok, 1, "section name missing")
	}
	if p.opts.LowerCaseSection {
		name = strings.ToLower(name)
	}

	comment := p.takeComment()
	if hasInline {
		if comment != "" {
			comment += "\n"
		}
		comment += inline
	}
	h.Section(name, comment)
	p.inSection = true
	return nil
}

func (p *Parser) parseOption(tok token.Token, h Handler) error {
	lit := tok.Literal
	rawName, rawValue, valueAt := lit, "", len(lit)
	if i := escape.IndexAny(lit, p.operators, p.opts.Escape); i >= 0 {
		rawName = strings.TrimRight(lit[:i], " \t")
		rawValue = strings.TrimLeft(lit[i+1:], " \t")
		valueAt = len(lit) - len(rawValue)
	} else if !p.opts.EmptyOption {
		return token.Errorf(tok, len(lit), "missing operator %q", p.opts.Operator)
	}
	if rawName == "" {
		return token.Errorf(tok, 0, "option name missing")
	}

	var inline string
	if p.opts.InlineComment {
		if j := inlineComment(rawValue, p.opts.Escape); j >= 0 {
			inline = rawValue[j+1:]
			rawValue = strings.TrimRight(rawValue[:j], " \t")
		}
	}

	name, err := p.unescape(tok, rawName, 0)
	if err != nil {
		return err
	}
	value, err := p.unescape(tok, rawValue, valueAt)
	if err != nil {
		return err
	}
	if p.opts.LowerCaseOption {
		name = strings.ToLower(name)
	}

	if p.opts.Include && name == "include" {
		ok, err := h.Include(value)
		if err != nil {
			return fmt.Errorf("line %d: %w", tok.Line, err)
		}
		if ok {
			return nil
		}
	}

	if !p.inSection {
		if !p.opts.GlobalSection {
			return token.Errorf(tok, 0, "option %q outside of a section", name)
		}
		h.Section(p.opts.GlobalSectionName, "")
		p.inSection = true
	}

	comment := p.takeComment()
	if p.opts.Comment && inline != "" {
		if comment != "" {
			comment += "\n"
		}
		comment += inline
	}
	h.Option(name, value, comment)
	return nil
}

func (p *Parser) unescape(tok token.Token, s string, offset int) (string, error) {
	if !p.opts.Escape {
		return s, nil
	}
	out, at, err := escape.Unescape(s)
	if err != nil {
		return "", token.Errorf(tok, offset+at, "%v", err)
	}
	return out, nil
}

// inlineComment returns the index of a comment marker that starts the value
// or follows a blank, or -1.
func inlineComment(v string, escaped bool) int {
	for i := 0; i < len(v); i++ {
		if escaped && v[i] == '\\' {
			i++
			continue
		}
		if token.IsCommentMarker(rune(v[i])) && (i == 0 || v[i-1] == ' ' || v[i-1] == '\t') {
			return i
		}
	}
	return -1
}
