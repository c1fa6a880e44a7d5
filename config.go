package ini

import (
	"golang.org/x/text/encoding"

	"github.com/KimNorgaard/go-ini/internal/formatter"
	"github.com/KimNorgaard/go-ini/internal/parser"
)

// Config selects the INI dialect used when loading and storing a File.
// It is a plain value; a File keeps its own copy.
type Config struct {
	// MultiSection keeps repeated section headers as distinct instances.
	// When false a repeated header merges into the existing section.
	MultiSection bool
	// MultiOption keeps every value of a repeated option. When false the
	// last occurrence replaces earlier ones, and only the last value of an
	// option is written.
	MultiOption bool
	// Comment enables reading and writing comments.
	Comment bool
	// HeaderComment enables the document level comment. It has no effect
	// when Comment is false.
	HeaderComment bool
	// EmptyOption accepts option lines without an operator, and writes
	// options with an empty value as a bare name.
	EmptyOption bool
	// EmptySection accepts the "[]" section header.
	EmptySection bool
	// Escape enables backslash escapes and continuation lines.
	Escape bool
	// StrictOperator accepts only Operator as the name/value separator.
	// Otherwise both '=' and ':' are accepted.
	StrictOperator bool
	// Include honors "include = path" lines when loading from an fs.FS.
	Include bool
	// PadOperator writes a space on each side of the operator.
	PadOperator bool
	// GlobalSection collects options that precede the first section header
	// into a section named GlobalSectionName instead of failing.
	GlobalSection     bool
	GlobalSectionName string
	// LowerCaseSection and LowerCaseOption lower-case names while loading.
	LowerCaseSection bool
	LowerCaseOption  bool
	// InlineComment treats a ';' or '#' that starts a value or follows a
	// blank inside it as the start of an option comment.
	InlineComment bool

	LineSeparator string
	Operator      rune
	PathSeparator rune
	CommentMarker rune

	// Encoding is the character encoding of the stored text. Nil means
	// UTF-8. A byte order mark is honored on input regardless.
	Encoding encoding.Encoding
}

// DefaultConfig returns the default dialect.
func DefaultConfig() Config {
	return Config{
		MultiOption:       true,
		Comment:           true,
		HeaderComment:     true,
		Escape:            true,
		PadOperator:       true,
		GlobalSectionName: "?",
		LineSeparator:     "\n",
		Operator:          '=',
		PathSeparator:     '/',
		CommentMarker:     '#',
	}
}

// normalized fills zero-valued characters and strings with their defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.LineSeparator == "" {
		c.LineSeparator = def.LineSeparator
	}
	if c.Operator == 0 {
		c.Operator = def.Operator
	}
	if c.PathSeparator == 0 {
		c.PathSeparator = def.PathSeparator
	}
	if c.CommentMarker == 0 {
		c.CommentMarker = def.CommentMarker
	}
	if c.GlobalSectionName == "" {
		c.GlobalSectionName = def.GlobalSectionName
	}
	return c
}

func (c Config) parserOptions() parser.Options {
	return parser.Options{
		Operator:          c.Operator,
		StrictOperator:    c.StrictOperator,
		EmptyOption:       c.EmptyOption,
		EmptySection:      c.EmptySection,
		Escape:            c.Escape,
		Comment:           c.Comment,
		HeaderComment:     c.Comment && c.HeaderComment,
		InlineComment:     c.InlineComment,
		GlobalSection:     c.GlobalSection,
		GlobalSectionName: c.GlobalSectionName,
		LowerCaseSection:  c.LowerCaseSection,
		LowerCaseOption:   c.LowerCaseOption,
		Include:           c.Include,
	}
}

func (c Config) formatterOptions() formatter.Options {
	return formatter.Options{
		LineSeparator: c.LineSeparator,
		Operator:      c.Operator,
		PadOperator:   c.PadOperator,
		CommentMarker: c.CommentMarker,
		Escape:        c.Escape,
		EmptyOption:   c.EmptyOption,
		InlineComment: c.InlineComment,
	}
}
