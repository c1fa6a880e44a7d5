package ini

import (
	"fmt"
	"reflect"

	"github.com/KimNorgaard/go-ini/internal/mapper"
)

// A Binding gives named access to the options of a section, limited to the
// properties declared by a struct type. Names are only ever looked up in the
// property table of that type; anything else fails with ErrInvalidArgument.
type Binding struct {
	section *Section
	target  reflect.Value
	table   *mapper.Table
	fold    bool
}

// Bind returns a Binding between s and the struct pointed to by v.
// FoldCase is the only option that applies.
func (s *Section) Bind(v any, opts ...Option) (*Binding, error) {
	o, err := newOptions(s.file.cfg, opts)
	if err != nil {
		return nil, err
	}
	rv, tbl, err := target(v)
	if err != nil {
		return nil, err
	}
	return &Binding{section: s, target: rv, table: tbl, fold: o.fold}, nil
}

// Names returns the declared property names.
func (b *Binding) Names() []string {
	return b.table.Names()
}

func (b *Binding) property(name string) (*mapper.Property, error) {
	p, ok := b.table.Find(name, b.fold)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a property of %s", ErrInvalidArgument, name, b.table.Type)
	}
	if p.Kind != mapper.Scalar && p.Kind != mapper.Sequence {
		return nil, fmt.Errorf("%w: property %q maps to a section", ErrInvalidArgument, name)
	}
	return p, nil
}

// Get returns the last value of the option bound to the property name.
func (b *Binding) Get(name string) (string, error) {
	p, err := b.property(name)
	if err != nil {
		return "", err
	}
	values := b.section.lookupValues(p.Name, b.fold)
	if len(values) == 0 {
		return "", notFound("option %q in section %q", p.Name, b.section.name)
	}
	return values[len(values)-1], nil
}

// Set converts raw to the type of the property name and stores it in the
// struct and the section. Scalar properties are replaced, values of slice
// properties are appended.
func (b *Binding) Set(name, raw string) error {
	p, err := b.property(name)
	if err != nil {
		return err
	}
	fv := b.target.FieldByIndex(p.Index)
	if p.Kind == mapper.Scalar {
		if err := set(p, fv, raw); err != nil {
			return err
		}
		b.section.Put(b.section.lookupName(p.Name, b.fold), raw)
		return nil
	}

	fv = mapper.Alloc(fv)
	if fv.Kind() != reflect.Slice {
		return fmt.Errorf("%w: cannot append to property %q of type %s", ErrInvalidArgument, p.Name, fv.Type())
	}
	elem := reflect.New(fv.Type().Elem()).Elem()
	if err := set(p, elem, raw); err != nil {
		return err
	}
	fv.Set(reflect.Append(fv, elem))
	b.section.Add(b.section.lookupName(p.Name, b.fold), raw)
	return nil
}

// Fetch returns the value of the option bound to the property name with
// references expanded, as Section.Fetch does.
func (b *Binding) Fetch(name string) (string, error) {
	p, err := b.property(name)
	if err != nil {
		return "", err
	}
	return b.section.Fetch(b.section.lookupName(p.Name, b.fold))
}
