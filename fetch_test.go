package ini_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-ini"
	"github.com/KimNorgaard/go-ini/internal/testutil"
)

func TestFetch(t *testing.T) {
	const input = `[paths]
root = /srv
data = ${root}/data
cache = ${data}/cache
home = ${env/HOME}
unterminated = ${root
braces = {root}

[multi]
v = one
v = two
first = ${v[0]}
last = ${v}
other = ${paths/root}:${multi/v[1]}

[node]
addr = a
[node]
addr = b
`
	cfg := ini.DefaultConfig()
	cfg.MultiSection = true
	f := load(t, cfg, input)

	testCases := []struct {
		section  string
		option   string
		expected string
	}{
		{"paths", "data", "/srv/data"},
		{"paths", "cache", "/srv/data/cache"},
		{"paths", "home", "${env/HOME}"},
		{"paths", "unterminated", "${root"},
		{"paths", "braces", "{root}"},
		{"multi", "first", "one"},
		{"multi", "last", "two"},
		{"multi", "other", "/srv:two"},
	}
	for _, tc := range testCases {
		t.Run(tc.section+"/"+tc.option, func(t *testing.T) {
			s, err := f.Section(tc.section)
			require.NoError(t, err)
			v, err := s.Fetch(tc.option)
			require.NoError(t, err)
			require.Equal(t, tc.expected, v)
		})
	}

	s := f.Add("refs")
	s.Add("first", "${node[0]/addr}")
	s.Add("last", "${node/addr}")
	s.Add("out of range", "${node[7]/addr}")
	for name, want := range map[string]string{"first": "a", "last": "b", "out of range": "${node[7]/addr}"} {
		v, err := s.Fetch(name)
		require.NoError(t, err)
		require.Equal(t, want, v, name)
	}

	v, err := s.FetchAt("first", 0)
	require.NoError(t, err)
	require.Equal(t, "a", v)

	_, err = s.Fetch("nope")
	require.ErrorIs(t, err, ini.ErrNotFound)
}

func TestFetch_Limits(t *testing.T) {
	f := load(t, ini.DefaultConfig(), `[s]
self = ${self}
ping = ${pong}
pong = ${ping}
l0 = ${l1}
l1 = ${l2}
l2 = ${l3}
l3 = ${l4}
l4 = ${l5}
l5 = ${l6}
l6 = ${l7}
l7 = ${l8}
l8 = ${l9}
l9 = ${l10}
l10 = ${l11}
l11 = end
ok = ${l2}
`)
	s, err := f.Section("s")
	require.NoError(t, err)

	for _, name := range []string{"self", "ping", "l0"} {
		_, err := s.Fetch(name)
		require.ErrorIs(t, err, ini.ErrInvalidArgument, name)
	}

	v, err := s.Fetch("ok")
	require.NoError(t, err)
	require.Equal(t, "end", v)
}

// A crafted document whose references expand exponentially must be rejected
// quickly instead of exhausting memory (CVE-2022-41404).
func TestFetch_ExponentialExpansion(t *testing.T) {
	f := ini.New(ini.DefaultConfig())
	require.NoError(t, f.LoadFS(testutil.FS(), "dos.ini"))

	for _, name := range []string{"deploy", "quiet"} {
		t.Run(name, func(t *testing.T) {
			s, err := f.Section(name)
			require.NoError(t, err)

			start := time.Now()
			_, err = s.Fetch("a")
			require.ErrorIs(t, err, ini.ErrInvalidArgument)
			require.Less(t, time.Since(start), 5*time.Second)

			v, err := s.Fetch("i")
			require.NoError(t, err)
			require.Len(t, v, 10*len(mustGet(t, s, "j")))
		})
	}
}

func mustGet(t *testing.T, s *ini.Section, name string) string {
	t.Helper()
	v, err := s.Get(name)
	require.NoError(t, err)
	return v
}
