package ini

import (
	"fmt"
	"io"
	"os"
	"slices"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/KimNorgaard/go-ini/internal/formatter"
)

// Store writes f to w in the dialect and encoding of its configuration.
// Characters the encoding cannot represent are replaced. Names the dialect
// cannot read back, such as empty option names, fail with
// ErrInvalidArgument before anything is written.
func (f *File) Store(w io.Writer) error {
	if f.cfg.Encoding == nil {
		return f.store(w)
	}
	tw := transform.NewWriter(w, encoding.ReplaceUnsupported(f.cfg.Encoding.NewEncoder()))
	if err := f.store(tw); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return &IOError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}

// StoreFile writes f to the file at f.Path(), creating or truncating it.
func (f *File) StoreFile() (err error) {
	if f.path == "" {
		return fmt.Errorf("%w: no path set", ErrSourceNotFound)
	}
	if err := f.check(); err != nil {
		return err
	}
	fd, err := os.Create(f.path)
	if err != nil {
		return openError(f.path, err)
	}
	defer func() {
		if cerr := fd.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: f.path, Err: cerr}
		}
	}()
	return f.Store(fd)
}

// WriteTo implements io.WriterTo.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	err := f.Store(cw)
	return cw.n, err
}

type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// check reports section and option names that a load in the same dialect
// would reject.
func (f *File) check() error {
	for _, s := range f.Sections() {
		global := f.cfg.GlobalSection && s.name == f.cfg.GlobalSectionName
		if s.name == "" && !global && !f.cfg.EmptySection {
			return fmt.Errorf("%w: empty section name", ErrInvalidArgument)
		}
		if slices.Contains(s.names, "") {
			return fmt.Errorf("%w: empty option name in section %q", ErrInvalidArgument, s.name)
		}
	}
	return nil
}

// store writes f as UTF-8 text.
func (f *File) store(w io.Writer) error {
	if err := f.check(); err != nil {
		return err
	}
	if err := f.format(formatter.New(w, f.cfg.formatterOptions())); err != nil {
		return &IOError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}

func (f *File) format(fm *formatter.Formatter) error {
	cfg := f.cfg
	if cfg.Comment && cfg.HeaderComment && f.comment != "" {
		if err := fm.Comment(f.comment); err != nil {
			return err
		}
		if err := fm.Blank(); err != nil {
			return err
		}
	}

	if cfg.GlobalSection {
		for _, s := range f.sections[cfg.GlobalSectionName] {
			if len(s.names) == 0 {
				continue
			}
			if err := s.formatOptions(fm); err != nil {
				return err
			}
			if err := fm.Blank(); err != nil {
				return err
			}
		}
	}

	for _, s := range f.Sections() {
		if cfg.GlobalSection && s.name == cfg.GlobalSectionName {
			continue
		}
		if cfg.Comment && s.comment != "" {
			if err := fm.Comment(s.comment); err != nil {
				return err
			}
		}
		if err := fm.Section(s.name); err != nil {
			return err
		}
		if err := s.formatOptions(fm); err != nil {
			return err
		}
		if err := fm.Blank(); err != nil {
			return err
		}
	}
	return fm.Flush()
}

func (s *Section) formatOptions(fm *formatter.Formatter) error {
	cfg := s.file.cfg
	for _, name := range s.names {
		o := s.options[name]
		if cfg.Comment && o.comment != "" {
			if err := fm.Comment(o.comment); err != nil {
				return err
			}
		}
		values := o.values
		if !cfg.MultiOption {
			values = values[len(values)-1:]
		}
		for _, v := range values {
			if err := fm.Option(name, v); err != nil {
				return err
			}
		}
	}
	return nil
}
