package mapper_test

import (
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/KimNorgaard/go-ini/internal/mapper"
	"github.com/stretchr/testify/require"
)

type Base struct {
	ID string `ini:"id"`
}

type sample struct {
	Base
	Name     string
	Port     int      `ini:"port,omitempty"`
	Tags     []string `ini:"tag"`
	Child    *sample  `ini:",optional"`
	Peers    []sample
	Addr     netip.Addr
	Timeout  time.Duration
	Raw      []byte
	Ignored  string `ini:"-"`
	internal string
}

func TestLookup(t *testing.T) {
	tbl, err := mapper.Lookup(reflect.TypeFor[*sample]())
	require.NoError(t, err)
	require.Equal(t, []string{"id", "Name", "port", "tag", "Child", "Peers", "Addr", "Timeout", "Raw"}, tbl.Names())

	kinds := map[string]mapper.Kind{}
	for _, p := range tbl.Properties() {
		kinds[p.Name] = p.Kind
	}
	require.Equal(t, map[string]mapper.Kind{
		"id":      mapper.Scalar,
		"Name":    mapper.Scalar,
		"port":    mapper.Scalar,
		"tag":     mapper.Sequence,
		"Child":   mapper.Struct,
		"Peers":   mapper.StructSequence,
		"Addr":    mapper.Scalar,
		"Timeout": mapper.Scalar,
		"Raw":     mapper.Scalar,
	}, kinds)

	p, ok := tbl.Find("port", false)
	require.True(t, ok)
	require.True(t, p.OmitEmpty)
	require.Equal(t, []int{2}, p.Index)

	p, ok = tbl.Find("id", false)
	require.True(t, ok)
	require.Equal(t, []int{0, 0}, p.Index)

	p, ok = tbl.Find("Child", false)
	require.True(t, ok)
	require.True(t, p.Optional)

	_, ok = tbl.Find("NAME", false)
	require.False(t, ok)
	p, ok = tbl.Find("NAME", true)
	require.True(t, ok)
	require.Equal(t, "Name", p.Name)

	_, ok = tbl.Find("Ignored", true)
	require.False(t, ok)
	_, ok = tbl.Find("internal", true)
	require.False(t, ok)

	again, err := mapper.Lookup(reflect.TypeFor[sample]())
	require.NoError(t, err)
	require.Same(t, tbl, again)
}

func TestLookup_Errors(t *testing.T) {
	_, err := mapper.Lookup(reflect.TypeFor[int]())
	require.EqualError(t, err, "ini: cannot bind non-struct type int")

	type withMap struct{ M map[string]string }
	_, err = mapper.Lookup(reflect.TypeFor[withMap]())
	require.ErrorContains(t, err, "unsupported type map[string]string")

	type dup struct {
		A string `ini:"x"`
		B string `ini:"x"`
	}
	_, err = mapper.Lookup(reflect.TypeFor[dup]())
	require.ErrorContains(t, err, `duplicate property "x"`)
}

func TestSet(t *testing.T) {
	var s sample
	v := reflect.ValueOf(&s).Elem()

	require.NoError(t, mapper.Set(v.FieldByName("Name"), "alpha"))
	require.NoError(t, mapper.Set(v.FieldByName("Port"), "0x1F"))
	require.NoError(t, mapper.Set(v.FieldByName("Addr"), "10.0.0.1"))
	require.NoError(t, mapper.Set(v.FieldByName("Timeout"), "1m30s"))
	require.NoError(t, mapper.Set(v.FieldByName("Raw"), "bytes"))

	require.Equal(t, "alpha", s.Name)
	require.Equal(t, 31, s.Port)
	require.Equal(t, netip.MustParseAddr("10.0.0.1"), s.Addr)
	require.Equal(t, 90*time.Second, s.Timeout)
	require.Equal(t, []byte("bytes"), s.Raw)

	require.ErrorIs(t, mapper.Set(v.FieldByName("Port"), "many"), mapper.ErrSyntax)
	require.Error(t, mapper.Set(v.FieldByName("Addr"), "not an address"))

	var u8 uint8
	require.ErrorIs(t, mapper.Set(reflect.ValueOf(&u8).Elem(), "256"), mapper.ErrSyntax)

	var pf *float64
	require.NoError(t, mapper.Set(reflect.ValueOf(&pf).Elem(), "2.5"))
	require.NotNil(t, pf)
	require.Equal(t, 2.5, *pf)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "YES", "On", "1", " true "} {
		b, err := mapper.ParseBool(s)
		require.NoError(t, err, s)
		require.True(t, b, s)
	}
	for _, s := range []string{"false", "no", "OFF", "0"} {
		b, err := mapper.ParseBool(s)
		require.NoError(t, err, s)
		require.False(t, b, s)
	}
	_, err := mapper.ParseBool("maybe")
	require.ErrorIs(t, err, mapper.ErrSyntax)
}

func TestFormat(t *testing.T) {
	var nilPtr *int
	n := 7
	testCases := []struct {
		value    any
		expected string
	}{
		{"text", "text"},
		{true, "true"},
		{int8(-3), "-3"},
		{uint(42), "42"},
		{1.5, "1.5"},
		{float32(0.1), "0.1"},
		{2 * time.Second, "2s"},
		{netip.MustParseAddr("::1"), "::1"},
		{[]byte("raw"), "raw"},
		{&n, "7"},
		{nilPtr, ""},
	}
	for _, tc := range testCases {
		s, err := mapper.Format(reflect.ValueOf(tc.value))
		require.NoError(t, err)
		require.Equal(t, tc.expected, s)
	}

	_, err := mapper.Format(reflect.ValueOf(map[string]int{}))
	require.Error(t, err)
}

func TestIsEmpty(t *testing.T) {
	require.True(t, mapper.IsEmpty(reflect.ValueOf("")))
	require.True(t, mapper.IsEmpty(reflect.ValueOf(0)))
	require.True(t, mapper.IsEmpty(reflect.ValueOf([]string{})))
	require.True(t, mapper.IsEmpty(reflect.ValueOf((*int)(nil))))
	require.True(t, mapper.IsEmpty(reflect.ValueOf(struct{ A int }{})))
	require.False(t, mapper.IsEmpty(reflect.ValueOf("x")))
	require.False(t, mapper.IsEmpty(reflect.ValueOf(true)))
	require.False(t, mapper.IsEmpty(reflect.ValueOf(struct{ A int }{1})))
}
