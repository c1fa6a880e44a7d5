package ini

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/KimNorgaard/go-ini/internal/lexer"
	"github.com/KimNorgaard/go-ini/internal/parser"
)

// maxIncludeDepth bounds nested include directives.
const maxIncludeDepth = 10

// Load replaces the content of f with the document read from r. On error f
// is left unchanged.
//
// Malformed input yields a *ParseError; a failing reader yields an *IOError.
func (f *File) Load(r io.Reader) error {
	return f.load(r, nil, "")
}

// LoadFile replaces the content of f with the file at f.Path(). With
// Config.Include set, include directives are resolved within the directory
// of that file.
func (f *File) LoadFile() error {
	if f.path == "" {
		return fmt.Errorf("%w: no path set", ErrSourceNotFound)
	}
	fd, err := os.Open(f.path)
	if err != nil {
		return openError(f.path, err)
	}
	defer fd.Close()

	var fsys fs.FS
	if f.cfg.Include {
		fsys = os.DirFS(filepath.Dir(f.path))
	}
	return f.load(fd, fsys, filepath.Base(f.path))
}

// LoadFS replaces the content of f with the file name in fsys. With
// Config.Include set, include directives name files in fsys relative to the
// including file.
func (f *File) LoadFS(fsys fs.FS, name string) error {
	fd, err := fsys.Open(name)
	if err != nil {
		return openError(name, err)
	}
	defer fd.Close()

	if !f.cfg.Include {
		fsys = nil
	}
	return f.load(fd, fsys, name)
}

func openError(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	return &IOError{Op: "open", Path: name, Err: err}
}

func (f *File) load(r io.Reader, fsys fs.FS, name string) error {
	doc := New(f.cfg)
	b := &builder{file: doc, fsys: fsys, name: name}
	if err := b.parse(r); err != nil {
		return err
	}

	f.comment = doc.comment
	f.names = doc.names
	f.sections = doc.sections
	for _, s := range doc.Sections() {
		s.file = f
	}
	return nil
}

// builder assembles a File from parser events.
type builder struct {
	file  *File
	cur   *Section
	fsys  fs.FS
	name  string
	depth int
}

func (b *builder) parse(r io.Reader) error {
	rec := &readRecorder{r: r}
	cfg := b.file.cfg
	dec := unicode.UTF8.NewDecoder()
	if cfg.Encoding != nil {
		dec = cfg.Encoding.NewDecoder()
	}
	in := transform.NewReader(rec, unicode.BOMOverride(dec))

	p := parser.New(lexer.New(in, cfg.Escape), cfg.parserOptions())
	err := p.Parse(b)
	if err != nil && rec.err != nil && errors.Is(err, rec.err) {
		return &IOError{Op: "read", Path: b.name, Err: rec.err}
	}
	return err
}

func (b *builder) HeaderComment(text string) {
	if b.depth == 0 {
		b.file.comment = text
	}
}

func (b *builder) Section(name, comment string) {
	b.cur = b.file.Add(name)
	if comment != "" {
		b.cur.comment = comment
	}
}

func (b *builder) Option(name, value, comment string) {
	b.cur.Add(name, value)
	if comment != "" {
		b.cur.options[name].comment = comment
	}
}

// Include loads the named file into the same document. Paths are relative
// to the including file and may not leave the file system root.
func (b *builder) Include(name string) (bool, error) {
	if b.fsys == nil {
		return false, nil
	}
	if b.depth >= maxIncludeDepth {
		return false, fmt.Errorf("%w: includes nested deeper than %d", ErrInvalidArgument, maxIncludeDepth)
	}
	if path.IsAbs(name) {
		return false, fmt.Errorf("%w: absolute include path %q", ErrInvalidArgument, name)
	}
	target := path.Join(path.Dir(b.name), name)
	if !fs.ValidPath(target) {
		return false, fmt.Errorf("%w: include path %q escapes the root", ErrInvalidArgument, name)
	}

	fd, err := b.fsys.Open(target)
	if err != nil {
		return false, openError(target, err)
	}
	defer fd.Close()

	child := &builder{file: b.file, fsys: b.fsys, name: target, depth: b.depth + 1}
	if err := child.parse(fd); err != nil {
		return false, fmt.Errorf("include %s: %w", target, err)
	}
	return true, nil
}

// readRecorder remembers the first failure of the underlying reader so it
// can be told apart from syntax errors.
type readRecorder struct {
	r   io.Reader
	err error
}

func (rr *readRecorder) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && err != io.EOF && rr.err == nil {
		rr.err = err
	}
	return n, err
}
