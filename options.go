package ini

import "fmt"

// Option configures decoding, encoding and binding.
type Option func(*options) error

type options struct {
	cfg      Config
	strict   bool
	fold     bool
	expand   bool
	maxDepth int
}

const defaultMaxDepth = 100

func newOptions(cfg Config, opts []Option) (*options, error) {
	o := &options{cfg: cfg, maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithConfig sets the dialect used by Unmarshal, Marshal, Decoder and
// Encoder. It has no effect on the methods of an existing File.
func WithConfig(cfg Config) Option {
	return func(o *options) error {
		o.cfg = cfg
		return nil
	}
}

// Strict makes decoding fail with a *MissingPropertyError when a property
// has no option or section, unless its tag carries "optional".
func Strict() Option {
	return func(o *options) error {
		o.strict = true
		return nil
	}
}

// FoldCase matches property names to option and section names without
// regard to case.
func FoldCase() Option {
	return func(o *options) error {
		o.fold = true
		return nil
	}
}

// Expand decodes option values with ${...} references expanded, as
// Section.Fetch does.
func Expand() Option {
	return func(o *options) error {
		o.expand = true
		return nil
	}
}

// MaxDepth sets the maximum nesting of structs followed while decoding or
// encoding.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("ini: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}
