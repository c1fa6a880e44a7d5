package ini

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/KimNorgaard/go-ini/internal/mapper"
)

// Decoder reads INI documents from an input stream and decodes them into
// structs.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// It is the caller's responsibility to call Close on r if required.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads a whole document from its input and stores it in the struct
// pointed to by v. See File.Decode for the mapping.
func (d *Decoder) Decode(v any) error {
	if d.r == nil {
		return fmt.Errorf("ini: Decode(nil reader)")
	}
	o, err := newOptions(DefaultConfig(), d.opts)
	if err != nil {
		return err
	}
	f := New(o.cfg)
	if err := f.Load(d.r); err != nil {
		return err
	}
	return f.decode(v, o)
}

// Unmarshal parses data and stores the result in the struct pointed to by v.
func Unmarshal(data []byte, v any, opts ...Option) error {
	return NewDecoder(bytes.NewReader(data), opts...).Decode(v)
}

// Decode stores the content of f in the struct pointed to by v.
//
// Fields of struct type map to the section of the same name, slices of
// structs to every instance of that section. Other fields map to options of
// the global section. Field names are taken from the "ini" struct tag when
// present. Names in the document that no field declares are ignored.
func (f *File) Decode(v any, opts ...Option) error {
	o, err := newOptions(f.cfg, opts)
	if err != nil {
		return err
	}
	return f.decode(v, o)
}

func (f *File) decode(v any, o *options) error {
	rv, tbl, err := target(v)
	if err != nil {
		return err
	}
	ds := &decodeState{opts: o, depth: o.maxDepth}
	global := f.lookup(f.cfg.GlobalSectionName, false)

	for i := range tbl.Properties() {
		p := &tbl.Properties()[i]
		fv := rv.FieldByIndex(p.Index)
		switch p.Kind {
		case mapper.Struct, mapper.StructSequence:
			err = ds.sections(p, f.lookup(p.Name, o.fold), fv)
		default:
			// Scalars of the top-level struct live in the global section.
			var s *Section
			if len(global) > 0 {
				s = global[len(global)-1]
			}
			err = ds.option(p, s, fv)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Decode stores the options of s in the struct pointed to by v.
//
// Scalar fields take the last value of their option, slice and array
// fields take every value. Struct fields map to the child section named
// after the field, slices of structs to every instance of it.
func (s *Section) Decode(v any, opts ...Option) error {
	o, err := newOptions(s.file.cfg, opts)
	if err != nil {
		return err
	}
	rv, _, err := target(v)
	if err != nil {
		return err
	}
	ds := &decodeState{opts: o, depth: o.maxDepth}
	return ds.section(s, s.name, rv)
}

// target checks that v is a non-nil pointer to a struct.
func target(v any) (reflect.Value, *mapper.Table, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, nil, fmt.Errorf("ini: decode into non-pointer %T or nil", v)
	}
	rv = mapper.Alloc(rv.Elem())
	tbl, err := mapper.Lookup(rv.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return rv, tbl, nil
}

type decodeState struct {
	opts  *options
	depth int
}

// section decodes s into rv. Child sections are looked up below path, which
// is the name of s or, for an instance of a section sequence, its indexed
// name.
func (ds *decodeState) section(s *Section, path string, rv reflect.Value) error {
	ds.depth--
	if ds.depth <= 0 {
		return fmt.Errorf("ini: reached max recursion depth")
	}
	defer func() { ds.depth++ }()

	tbl, err := mapper.Lookup(rv.Type())
	if err != nil {
		return err
	}
	for i := range tbl.Properties() {
		p := &tbl.Properties()[i]
		fv := rv.FieldByIndex(p.Index)
		switch p.Kind {
		case mapper.Struct, mapper.StructSequence:
			name := path + s.sep() + p.Name
			err = ds.sections(p, s.file.lookup(name, ds.opts.fold), fv)
		default:
			err = ds.option(p, s, fv)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// option decodes the option of s declared by p into fv. s may be nil.
func (ds *decodeState) option(p *mapper.Property, s *Section, fv reflect.Value) error {
	var values []string
	if s != nil {
		name := s.lookupName(p.Name, ds.opts.fold)
		values = s.Values(name)
		if ds.opts.expand {
			for i := range values {
				v, err := s.FetchAt(name, i)
				if err != nil {
					return err
				}
				values[i] = v
			}
		}
	}
	if len(values) == 0 {
		return ds.missing(p)
	}

	if p.Kind == mapper.Scalar {
		return set(p, fv, values[len(values)-1])
	}

	fv = mapper.Alloc(fv)
	first := sequence(fv, len(values))
	for i, raw := range values[first:] {
		if err := set(p, fv.Index(i), raw); err != nil {
			return err
		}
	}
	return nil
}

// sections decodes the section instances list into fv. The children of the
// n-th instance are found below its indexed name.
func (ds *decodeState) sections(p *mapper.Property, list []*Section, fv reflect.Value) error {
	if len(list) == 0 {
		return ds.missing(p)
	}
	if p.Kind == mapper.Struct {
		last := list[len(list)-1]
		return ds.section(last, last.name, mapper.Alloc(fv))
	}

	fv = mapper.Alloc(fv)
	first := sequence(fv, len(list))
	for i, s := range list[first:] {
		if err := ds.section(s, indexed(s.name, first+i), mapper.Alloc(fv.Index(i))); err != nil {
			return err
		}
	}
	return nil
}

// sequence prepares the slice or array fv for n decoded elements and
// returns the index of the first of them to decode. A slice is resized to
// n. An array keeps the last n elements that fit and is zeroed first, so
// positions without an element hold the zero value.
func sequence(fv reflect.Value, n int) int {
	if fv.Kind() == reflect.Slice {
		fv.Set(reflect.MakeSlice(fv.Type(), n, n))
		return 0
	}
	fv.SetZero()
	return max(0, n-fv.Len())
}

func (ds *decodeState) missing(p *mapper.Property) error {
	if ds.opts.strict && !p.Optional {
		return &MissingPropertyError{Property: p.Name}
	}
	return nil
}

func set(p *mapper.Property, fv reflect.Value, raw string) error {
	if err := mapper.Set(fv, raw); err != nil {
		return &TypeMismatchError{Property: p.Name, Value: raw, Type: fv.Type(), Err: err}
	}
	return nil
}

// lookup returns the instances of the section name, matching case-folded
// names when fold is set and there is no exact match.
func (f *File) lookup(name string, fold bool) []*Section {
	if list, ok := f.sections[name]; ok {
		return list
	}
	if fold {
		key := mapper.Fold(name)
		for _, n := range f.names {
			if mapper.Fold(n) == key {
				return f.sections[n]
			}
		}
	}
	return nil
}

// lookupName returns the name of the option of s matching name, or name
// itself if there is none.
func (s *Section) lookupName(name string, fold bool) string {
	if _, ok := s.options[name]; ok || !fold {
		return name
	}
	key := mapper.Fold(name)
	for _, n := range s.names {
		if mapper.Fold(n) == key {
			return n
		}
	}
	return name
}

// lookupValues is the option counterpart of File.lookup.
func (s *Section) lookupValues(name string, fold bool) []string {
	if o, ok := s.options[s.lookupName(name, fold)]; ok {
		return o.values
	}
	return nil
}
