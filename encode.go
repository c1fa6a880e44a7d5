package ini

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-ini/internal/mapper"
)

// Encoder writes structs to an output stream as INI documents.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the INI encoding of the struct v to the stream.
func (e *Encoder) Encode(v any) error {
	o, err := newOptions(DefaultConfig(), e.opts)
	if err != nil {
		return err
	}
	f := New(o.cfg)
	if err := f.encode(v, o); err != nil {
		return err
	}
	return f.Store(e.w)
}

// Marshal returns the INI encoding of the struct v.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the struct v into f, using the mapping of File.Decode.
// Options of existing sections are replaced; sections mapped from slices
// are replaced as a whole. Nil pointers are skipped, as are empty values of
// fields tagged "omitempty".
func (f *File) Encode(v any, opts ...Option) error {
	o, err := newOptions(f.cfg, opts)
	if err != nil {
		return err
	}
	return f.encode(v, o)
}

func (f *File) encode(v any, o *options) error {
	rv, ok := mapper.Indirect(reflect.ValueOf(v))
	if !ok || rv.Kind() != reflect.Struct {
		return fmt.Errorf("ini: cannot encode %T", v)
	}
	tbl, err := mapper.Lookup(rv.Type())
	if err != nil {
		return err
	}

	es := &encodeState{depth: o.maxDepth}
	for _, p := range tbl.Properties() {
		fv := rv.FieldByIndex(p.Index)
		if skip(&p, fv) {
			continue
		}
		switch p.Kind {
		case mapper.Struct:
			err = es.section(f.ensure(p.Name), p.Name, fv)
		case mapper.StructSequence:
			err = es.instances(f, p.Name, fv)
		default:
			err = es.option(&p, f.ensure(f.cfg.GlobalSectionName), fv)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Encode writes the struct v into s, using the mapping of Section.Decode.
func (s *Section) Encode(v any, opts ...Option) error {
	o, err := newOptions(s.file.cfg, opts)
	if err != nil {
		return err
	}
	rv, ok := mapper.Indirect(reflect.ValueOf(v))
	if !ok || rv.Kind() != reflect.Struct {
		return fmt.Errorf("ini: cannot encode %T", v)
	}
	es := &encodeState{depth: o.maxDepth}
	return es.section(s, s.name, rv)
}

// skip reports whether the field fv is left out of the output.
func skip(p *mapper.Property, fv reflect.Value) bool {
	if p.OmitEmpty && mapper.IsEmpty(fv) {
		return true
	}
	_, ok := mapper.Indirect(fv)
	return !ok
}

type encodeState struct {
	depth int
}

// section writes rv into s. Child sections are named below path, which is
// the name of s or, for an instance of a section sequence, its indexed name.
func (es *encodeState) section(s *Section, path string, rv reflect.Value) error {
	es.depth--
	if es.depth <= 0 {
		return fmt.Errorf("ini: reached max recursion depth")
	}
	defer func() { es.depth++ }()

	rv, _ = mapper.Indirect(rv)
	tbl, err := mapper.Lookup(rv.Type())
	if err != nil {
		return err
	}
	for _, p := range tbl.Properties() {
		fv := rv.FieldByIndex(p.Index)
		if skip(&p, fv) {
			continue
		}
		switch p.Kind {
		case mapper.Struct:
			child := s.file.ensure(path + s.sep() + p.Name)
			err = es.section(child, child.name, fv)
		case mapper.StructSequence:
			err = es.instances(s.file, path+s.sep()+p.Name, fv)
		default:
			err = es.option(&p, s, fv)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// instances replaces the section name with one instance per element of fv.
// Children of the n-th instance are named below name[n].
func (es *encodeState) instances(f *File, name string, fv reflect.Value) error {
	fv, _ = mapper.Indirect(fv)
	_ = f.Remove(name)
	f.removeIndexed(name)
	n := 0
	for i := 0; i < fv.Len(); i++ {
		elem, ok := mapper.Indirect(fv.Index(i))
		if !ok {
			continue
		}
		if err := es.section(f.addInstance(name), indexed(name, n), elem); err != nil {
			return err
		}
		n++
	}
	return nil
}

func (es *encodeState) option(p *mapper.Property, s *Section, fv reflect.Value) error {
	if p.Kind == mapper.Scalar {
		str, err := mapper.Format(fv)
		if err != nil {
			return fmt.Errorf("ini: property %s: %w", p.Name, err)
		}
		s.Put(p.Name, str)
		return nil
	}

	fv, _ = mapper.Indirect(fv)
	values := make([]string, 0, fv.Len())
	for i := 0; i < fv.Len(); i++ {
		elem := fv.Index(i)
		if _, ok := mapper.Indirect(elem); !ok {
			continue
		}
		str, err := mapper.Format(elem)
		if err != nil {
			return fmt.Errorf("ini: property %s: %w", p.Name, err)
		}
		values = append(values, str)
	}
	s.Put(p.Name, values...)
	return nil
}

// ensure returns the last instance of the section name, adding one if there
// is none.
func (f *File) ensure(name string) *Section {
	if list := f.sections[name]; len(list) > 0 {
		return list[len(list)-1]
	}
	return f.addInstance(name)
}

// removeIndexed removes the sections below the instances of name.
func (f *File) removeIndexed(name string) {
	prefix := name + "["
	for _, n := range slices.Clone(f.names) {
		if strings.HasPrefix(n, prefix) {
			_ = f.Remove(n)
		}
	}
}

// indexed returns the path of the i-th instance of the section name.
func indexed(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

// addInstance appends a new instance of the section name regardless of
// Config.MultiSection.
func (f *File) addInstance(name string) *Section {
	if _, ok := f.sections[name]; !ok {
		f.names = append(f.names, name)
	}
	s := newSection(f, name)
	f.sections[name] = append(f.sections[name], s)
	return s
}
