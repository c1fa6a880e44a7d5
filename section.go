package ini

import (
	"slices"
	"strings"
)

type option struct {
	values  []string
	comment string
}

// A Section is a named, ordered multi-map of options. Sections are created
// through File.Add and stay bound to their File.
type Section struct {
	file    *File
	name    string
	comment string
	names   []string
	options map[string]*option
}

func newSection(f *File, name string) *Section {
	return &Section{file: f, name: name, options: make(map[string]*option)}
}

// Name returns the section name.
func (s *Section) Name() string { return s.name }

// Comment returns the comment attached to the section header.
func (s *Section) Comment() string { return s.comment }

// SetComment sets the comment attached to the section header.
func (s *Section) SetComment(text string) { s.comment = text }

// Add adds value to the option name. With MultiOption the value is appended
// to the option's values, otherwise it replaces them.
func (s *Section) Add(name, value string) {
	o, ok := s.options[name]
	if !ok {
		s.names = append(s.names, name)
		s.options[name] = &option{values: []string{value}}
		return
	}
	if s.file.cfg.MultiOption {
		o.values = append(o.values, value)
	} else {
		o.values = []string{value}
	}
}

// Put replaces all values of the option name. Putting no values removes
// the option.
func (s *Section) Put(name string, values ...string) {
	if len(values) == 0 {
		s.Remove(name)
		return
	}
	o, ok := s.options[name]
	if !ok {
		o = &option{}
		s.names = append(s.names, name)
		s.options[name] = o
	}
	o.values = slices.Clone(values)
}

// Get returns the last value of the option name.
func (s *Section) Get(name string) (string, error) {
	o, ok := s.options[name]
	if !ok {
		return "", notFound("option %q in section %q", name, s.name)
	}
	return o.values[len(o.values)-1], nil
}

// GetAt returns value i of the option name.
func (s *Section) GetAt(name string, i int) (string, error) {
	o, ok := s.options[name]
	if !ok {
		return "", notFound("option %q in section %q", name, s.name)
	}
	if i < 0 || i >= len(o.values) {
		return "", notFound("value %d of option %q in section %q", i, name, s.name)
	}
	return o.values[i], nil
}

// Values returns a copy of all values of the option name, or nil.
func (s *Section) Values(name string) []string {
	if o, ok := s.options[name]; ok {
		return slices.Clone(o.values)
	}
	return nil
}

// Length returns the number of values of the option name.
func (s *Section) Length(name string) int {
	if o, ok := s.options[name]; ok {
		return len(o.values)
	}
	return 0
}

// Has reports whether the option name exists.
func (s *Section) Has(name string) bool {
	_, ok := s.options[name]
	return ok
}

// Names returns the option names in order of first appearance.
func (s *Section) Names() []string {
	return slices.Clone(s.names)
}

// Remove deletes the option name and all of its values.
func (s *Section) Remove(name string) error {
	if _, ok := s.options[name]; !ok {
		return notFound("option %q in section %q", name, s.name)
	}
	delete(s.options, name)
	s.names = slices.DeleteFunc(s.names, func(n string) bool { return n == name })
	return nil
}

// RemoveAt deletes value i of the option name. The option itself is removed
// together with its last value.
func (s *Section) RemoveAt(name string, i int) error {
	o, ok := s.options[name]
	if !ok {
		return notFound("option %q in section %q", name, s.name)
	}
	if i < 0 || i >= len(o.values) {
		return notFound("value %d of option %q in section %q", i, name, s.name)
	}
	if len(o.values) == 1 {
		return s.Remove(name)
	}
	o.values = slices.Delete(o.values, i, i+1)
	return nil
}

// OptionComment returns the comment attached to the option name.
func (s *Section) OptionComment(name string) (string, error) {
	o, ok := s.options[name]
	if !ok {
		return "", notFound("option %q in section %q", name, s.name)
	}
	return o.comment, nil
}

// SetOptionComment sets the comment attached to the option name.
func (s *Section) SetOptionComment(name, text string) error {
	o, ok := s.options[name]
	if !ok {
		return notFound("option %q in section %q", name, s.name)
	}
	o.comment = text
	return nil
}

func (s *Section) sep() string {
	return string(s.file.cfg.PathSeparator)
}

// Parent returns the section whose name is this name up to the last path
// separator, or nil if there is no such section.
func (s *Section) Parent() *Section {
	i := strings.LastIndex(s.name, s.sep())
	if i < 0 {
		return nil
	}
	p, err := s.file.Section(s.name[:i])
	if err != nil {
		return nil
	}
	return p
}

// Child returns the last instance of the child section name.
func (s *Section) Child(name string) (*Section, error) {
	return s.file.Section(s.name + s.sep() + name)
}

// AddChild adds the child section name.
func (s *Section) AddChild(name string) *Section {
	return s.file.Add(s.name + s.sep() + name)
}

// ChildrenNames returns the names, relative to s, of the direct children of
// s in document order.
func (s *Section) ChildrenNames() []string {
	prefix := s.name + s.sep()
	var names []string
	for _, n := range s.file.names {
		rest, ok := strings.CutPrefix(n, prefix)
		if ok && rest != "" && !strings.Contains(rest, s.sep()) {
			names = append(names, rest)
		}
	}
	return names
}
