package formatter

import (
	"bufio"
	"io"
	"strings"

	"github.com/KimNorgaard/go-ini/internal/escape"
)

// Options controls the textual form of the output.
type Options struct {
	LineSeparator string
	Operator      rune
	PadOperator   bool
	CommentMarker rune
	Escape        bool
	EmptyOption   bool
	InlineComment bool
}

// Formatter writes INI lines to an output stream.
type Formatter struct {
	w    *bufio.Writer
	opts Options

	nameSpecials  string
	valueSpecials string
	sectSpecials  string
	operator      string
}

// New returns a new formatter that writes to w. Output is buffered until
// Flush is called.
func New(w io.Writer, opts Options) *Formatter {
	if opts.LineSeparator == "" {
		opts.LineSeparator = "\n"
	}
	if opts.Operator == 0 {
		opts.Operator = '='
	}
	if opts.CommentMarker == 0 {
		opts.CommentMarker = '#'
	}
	f := &Formatter{
		w:            bufio.NewWriter(w),
		opts:         opts,
		nameSpecials: "=:;#[]",
		sectSpecials: "[]",
		operator:     string(opts.Operator),
	}
	if !strings.ContainsRune(f.nameSpecials, opts.Operator) && strings.ContainsRune(escape.Literal, opts.Operator) {
		f.nameSpecials += string(opts.Operator)
	}
	if opts.InlineComment {
		f.valueSpecials = ";#"
	}
	if opts.PadOperator {
		f.operator = " " + f.operator + " "
	}
	return f
}

func (f *Formatter) write(parts ...string) error {
	for _, s := range parts {
		if _, err := f.w.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) quote(s, specials string) string {
	if f.opts.Escape {
		return escape.Escape(s, specials)
	}
	return escape.EscapeBreaks(s)
}

// Comment writes text as comment lines, one per line of text.
func (f *Formatter) Comment(text string) error {
	marker := string(f.opts.CommentMarker)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if err := f.write(marker, line, f.opts.LineSeparator); err != nil {
			return err
		}
	}
	return nil
}

// Section writes a section header.
func (f *Formatter) Section(name string) error {
	return f.write("[", f.quote(name, f.sectSpecials), "]", f.opts.LineSeparator)
}

// Option writes a single name/value line.
func (f *Formatter) Option(name, value string) error {
	name = f.quote(name, f.nameSpecials)
	if value == "" && f.opts.EmptyOption {
		return f.write(name, f.opts.LineSeparator)
	}
	if value == "" {
		return f.write(name, strings.TrimRight(f.operator, " "), f.opts.LineSeparator)
	}
	return f.write(name, f.operator, f.quote(value, f.valueSpecials), f.opts.LineSeparator)
}

// Blank writes an empty line.
func (f *Formatter) Blank() error {
	return f.write(f.opts.LineSeparator)
}

// Flush writes any buffered output to the underlying writer.
func (f *Formatter) Flush() error {
	return f.w.Flush()
}
