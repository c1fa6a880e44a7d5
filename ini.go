package ini

import (
	"bytes"
	"slices"
)

// A File is an INI document: an ordered multi-map from section names to
// section instances, plus a document comment.
//
// A File is not safe for concurrent use.
type File struct {
	cfg      Config
	path     string
	comment  string
	names    []string
	sections map[string][]*Section
}

// New returns an empty File using cfg.
func New(cfg Config) *File {
	return &File{
		cfg:      cfg.normalized(),
		sections: make(map[string][]*Section),
	}
}

// Parse parses data with the default configuration.
func Parse(data []byte) (*File, error) {
	f := New(DefaultConfig())
	if err := f.Load(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseFile loads the file at path with the default configuration.
func ParseFile(path string) (*File, error) {
	f := New(DefaultConfig())
	f.SetPath(path)
	if err := f.LoadFile(); err != nil {
		return nil, err
	}
	return f, nil
}

// Config returns the configuration of f.
func (f *File) Config() Config { return f.cfg }

// SetConfig replaces the configuration of f. Content already loaded is
// kept as is.
func (f *File) SetConfig(cfg Config) { f.cfg = cfg.normalized() }

// Path returns the file path used by LoadFile and StoreFile.
func (f *File) Path() string { return f.path }

// SetPath sets the file path used by LoadFile and StoreFile.
func (f *File) SetPath(path string) { f.path = path }

// Comment returns the document comment.
func (f *File) Comment() string { return f.comment }

// SetComment sets the document comment.
func (f *File) SetComment(text string) { f.comment = text }

// Add adds the section name. Without MultiSection an existing section of
// that name is returned instead of a new one.
func (f *File) Add(name string) *Section {
	list, ok := f.sections[name]
	if !ok {
		f.names = append(f.names, name)
	} else if !f.cfg.MultiSection {
		return list[len(list)-1]
	}
	s := newSection(f, name)
	f.sections[name] = append(list, s)
	return s
}

// Section returns the last instance of the section name.
func (f *File) Section(name string) (*Section, error) {
	list, ok := f.sections[name]
	if !ok {
		return nil, notFound("section %q", name)
	}
	return list[len(list)-1], nil
}

// SectionAt returns instance i of the section name.
func (f *File) SectionAt(name string, i int) (*Section, error) {
	list, ok := f.sections[name]
	if !ok {
		return nil, notFound("section %q", name)
	}
	if i < 0 || i >= len(list) {
		return nil, notFound("instance %d of section %q", i, name)
	}
	return list[i], nil
}

// Length returns the number of instances of the section name.
func (f *File) Length(name string) int {
	return len(f.sections[name])
}

// Has reports whether the section name exists.
func (f *File) Has(name string) bool {
	_, ok := f.sections[name]
	return ok
}

// Names returns the section names in order of first appearance.
func (f *File) Names() []string {
	return slices.Clone(f.names)
}

// Sections returns every section instance in model order: names in order of
// first appearance, instances of a name in order of addition.
func (f *File) Sections() []*Section {
	var all []*Section
	for _, n := range f.names {
		all = append(all, f.sections[n]...)
	}
	return all
}

// Remove deletes every instance of the section name.
func (f *File) Remove(name string) error {
	if _, ok := f.sections[name]; !ok {
		return notFound("section %q", name)
	}
	delete(f.sections, name)
	f.names = slices.DeleteFunc(f.names, func(n string) bool { return n == name })
	return nil
}

// RemoveAt deletes instance i of the section name.
func (f *File) RemoveAt(name string, i int) error {
	list, ok := f.sections[name]
	if !ok {
		return notFound("section %q", name)
	}
	if i < 0 || i >= len(list) {
		return notFound("instance %d of section %q", i, name)
	}
	if len(list) == 1 {
		return f.Remove(name)
	}
	f.sections[name] = slices.Delete(list, i, i+1)
	return nil
}

// Clear removes all sections and the document comment.
func (f *File) Clear() {
	f.names = nil
	f.sections = make(map[string][]*Section)
	f.comment = ""
}

// SectionComment returns the comment of the last instance of the section name.
func (f *File) SectionComment(name string) (string, error) {
	s, err := f.Section(name)
	if err != nil {
		return "", err
	}
	return s.comment, nil
}

// SetSectionComment sets the comment of the last instance of the section
// name, adding the section if needed.
func (f *File) SetSectionComment(name, text string) {
	s, err := f.Section(name)
	if err != nil {
		s = f.Add(name)
	}
	s.comment = text
}

// MarshalText implements encoding.TextMarshaler. The text is UTF-8
// regardless of Config.Encoding.
func (f *File) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.store(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, replacing the content
// of f. A zero File uses the default configuration.
func (f *File) UnmarshalText(text []byte) error {
	if f.sections == nil {
		*f = *New(DefaultConfig())
	}
	return f.Load(bytes.NewReader(text))
}
