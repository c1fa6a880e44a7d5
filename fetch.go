package ini

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Interpolation limits.
const (
	maxFetchDepth = 10
	maxFetchRefs  = 4096
	maxFetchSize  = 64 << 10
)

// Fetch returns the last value of the option name with references expanded.
//
// A reference has the form ${option}, ${option[i]}, ${section/option} or
// ${section[i]/option}, using the configured path separator. Without an
// index the last instance or value is used. References that do not resolve
// are kept literally. Expansion fails with ErrInvalidArgument when it nests
// too deeply, loops, resolves too many references or grows too large.
func (s *Section) Fetch(name string) (string, error) {
	n := s.Length(name)
	if n == 0 {
		return "", notFound("option %q in section %q", name, s.name)
	}
	return s.FetchAt(name, n-1)
}

// FetchAt is like Fetch for value i of the option name.
func (s *Section) FetchAt(name string, i int) (string, error) {
	raw, err := s.GetAt(name, i)
	if err != nil {
		return "", err
	}
	e := &expander{file: s.file, stack: []string{refKey(s, name, i)}}
	var buf strings.Builder
	if err := e.expand(s, raw, 0, &buf); err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	return buf.String(), nil
}

type expander struct {
	file  *File
	stack []string
	refs  int
}

func refKey(s *Section, name string, i int) string {
	return fmt.Sprintf("%p/%s[%d]", s, name, i)
}

func (e *expander) expand(s *Section, value string, depth int, buf *strings.Builder) error {
	if depth > maxFetchDepth {
		return fmt.Errorf("%w: references nested deeper than %d", ErrInvalidArgument, maxFetchDepth)
	}
	for {
		i := strings.Index(value, "${")
		if i < 0 {
			break
		}
		j := strings.IndexByte(value[i+2:], '}')
		if j < 0 {
			break
		}
		buf.WriteString(value[:i])
		ref, lit := value[i+2:i+2+j], value[i:i+3+j]
		value = value[i+3+j:]

		sec, name, idx, ok := e.resolve(s, ref)
		if !ok {
			buf.WriteString(lit)
			continue
		}
		e.refs++
		if e.refs > maxFetchRefs {
			return fmt.Errorf("%w: more than %d references", ErrInvalidArgument, maxFetchRefs)
		}
		key := refKey(sec, name, idx)
		if slices.Contains(e.stack, key) {
			return fmt.Errorf("%w: reference cycle at ${%s}", ErrInvalidArgument, ref)
		}
		e.stack = append(e.stack, key)
		err := e.expand(sec, sec.options[name].values[idx], depth+1, buf)
		e.stack = e.stack[:len(e.stack)-1]
		if err != nil {
			return err
		}
		if buf.Len() > maxFetchSize {
			return fmt.Errorf("%w: expanded value exceeds %d bytes", ErrInvalidArgument, maxFetchSize)
		}
	}
	buf.WriteString(value)
	if buf.Len() > maxFetchSize {
		return fmt.Errorf("%w: expanded value exceeds %d bytes", ErrInvalidArgument, maxFetchSize)
	}
	return nil
}

// resolve maps a reference to a section instance, option name and value
// index. ok is false if any part does not exist.
func (e *expander) resolve(s *Section, ref string) (sec *Section, name string, idx int, ok bool) {
	sec = s
	if k := strings.LastIndex(ref, s.sep()); k >= 0 {
		secName, secIdx := splitIndex(ref[:k])
		var err error
		if secIdx < 0 {
			sec, err = e.file.Section(secName)
		} else {
			sec, err = e.file.SectionAt(secName, secIdx)
		}
		if err != nil {
			return nil, "", 0, false
		}
		ref = ref[k+1:]
	}

	name, idx = splitIndex(ref)
	o, found := sec.options[name]
	if !found {
		return nil, "", 0, false
	}
	if idx < 0 {
		idx = len(o.values) - 1
	}
	if idx >= len(o.values) {
		return nil, "", 0, false
	}
	return sec, name, idx, true
}

// splitIndex splits "name[i]" into name and i. i is -1 without a valid
// index suffix.
func splitIndex(ref string) (string, int) {
	if !strings.HasSuffix(ref, "]") {
		return ref, -1
	}
	open := strings.LastIndexByte(ref, '[')
	if open < 0 {
		return ref, -1
	}
	i, err := strconv.Atoi(ref[open+1 : len(ref)-1])
	if err != nil || i < 0 {
		return ref, -1
	}
	return ref[:open], i
}
