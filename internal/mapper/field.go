package mapper

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
)

// Kind classifies how a property maps onto INI nodes.
type Kind int

const (
	// Scalar properties hold a single option value.
	Scalar Kind = iota
	// Sequence properties hold every value of a multi-valued option.
	Sequence
	// Struct properties map to a section.
	Struct
	// StructSequence properties map to every instance of a section.
	StructSequence
)

// Property is one declared, settable field of a struct type.
type Property struct {
	Name      string
	Index     []int
	Type      reflect.Type
	Kind      Kind
	OmitEmpty bool
	Optional  bool
}

// Table is the closed set of properties of a struct type. It is built from
// the type alone and is never extended by document content.
type Table struct {
	Type   reflect.Type
	props  []Property
	byName map[string]int
	folded map[string]int
}

// fieldCache caches tables by struct type.
var fieldCache sync.Map // map[reflect.Type]*Table

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	durationType        = reflect.TypeFor[time.Duration]()
)

// Fold returns the case-folded form of a property or option name.
func Fold(name string) string {
	return cases.Fold().String(name)
}

// Lookup returns the property table for the struct type t, which may be a
// pointer to a struct. The result is cached.
func Lookup(t reflect.Type) (*Table, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("ini: cannot bind non-struct type %s", t)
	}
	if tbl, ok := fieldCache.Load(t); ok {
		return tbl.(*Table), nil
	}

	tbl := &Table{
		Type:   t,
		byName: make(map[string]int),
		folded: make(map[string]int),
	}
	if err := tbl.walk(t, nil); err != nil {
		return nil, err
	}
	for i, p := range tbl.props {
		key := Fold(p.Name)
		if _, ok := tbl.folded[key]; !ok {
			tbl.folded[key] = i
		}
	}

	actual, _ := fieldCache.LoadOrStore(t, tbl)
	return actual.(*Table), nil
}

// walk collects the exported fields of t, recursing into embedded structs.
func (tbl *Table) walk(t reflect.Type, idx []int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("ini")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		index := append(append([]int(nil), idx...), i)

		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && !isScalarType(ft) {
				// Embedded pointers cannot be allocated through unexported
				// fields, so only embedded values are flattened.
				if sf.Type.Kind() == reflect.Pointer {
					return fmt.Errorf("ini: embedded pointer field %s.%s is not supported", t, sf.Name)
				}
				if err := tbl.walk(ft, index); err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		p := Property{Name: sf.Name, Index: index, Type: sf.Type}
		if name != "" {
			p.Name = name
		}
		for opts != "" {
			var opt string
			opt, opts, _ = strings.Cut(opts, ",")
			switch opt {
			case "omitempty":
				p.OmitEmpty = true
			case "optional":
				p.Optional = true
			}
		}
		kind, err := kindOf(sf.Type)
		if err != nil {
			return fmt.Errorf("ini: property %s of %s: %w", p.Name, t, err)
		}
		p.Kind = kind

		if _, dup := tbl.byName[p.Name]; dup {
			return fmt.Errorf("ini: duplicate property %q in %s", p.Name, t)
		}
		tbl.byName[p.Name] = len(tbl.props)
		tbl.props = append(tbl.props, p)
	}
	return nil
}

func kindOf(t reflect.Type) (Kind, error) {
	base := deref(t)
	if isScalarType(base) {
		return Scalar, nil
	}
	switch base.Kind() {
	case reflect.Struct:
		return Struct, nil
	case reflect.Slice, reflect.Array:
		elem := deref(base.Elem())
		if isScalarType(elem) {
			return Sequence, nil
		}
		if elem.Kind() == reflect.Struct {
			return StructSequence, nil
		}
		return 0, fmt.Errorf("unsupported element type %s", base.Elem())
	default:
		return 0, fmt.Errorf("unsupported type %s", t)
	}
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// isScalarType reports whether values of t are converted from one string.
func isScalarType(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) || t == durationType {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Uint8
	}
	return false
}

// Properties returns the declared properties in declaration order.
func (tbl *Table) Properties() []Property {
	return tbl.props
}

// Names returns the declared property names in declaration order.
func (tbl *Table) Names() []string {
	names := make([]string, len(tbl.props))
	for i, p := range tbl.props {
		names[i] = p.Name
	}
	return names
}

// Find looks name up in the table. With fold set, a case-insensitive match
// is tried after the exact one.
func (tbl *Table) Find(name string, fold bool) (*Property, bool) {
	if i, ok := tbl.byName[name]; ok {
		return &tbl.props[i], true
	}
	if fold {
		if i, ok := tbl.folded[Fold(name)]; ok {
			return &tbl.props[i], true
		}
	}
	return nil, false
}
