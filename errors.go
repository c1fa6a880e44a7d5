package ini

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/KimNorgaard/go-ini/internal/token"
)

var (
	// ErrSourceNotFound is returned when the source or destination of a
	// load or store does not exist or was never set.
	ErrSourceNotFound = errors.New("ini: source not found")
	// ErrIO is returned when reading or writing the underlying stream fails.
	ErrIO = errors.New("ini: i/o failure")
	// ErrNotFound is returned when a section, option or index is absent.
	ErrNotFound = errors.New("ini: not found")
	// ErrInvalidArgument is returned for names outside a closed property
	// set, and for interpolation that exceeds its limits.
	ErrInvalidArgument = errors.New("ini: invalid argument")
)

// A ParseError describes malformed input. Line and Column are 1-based.
type ParseError = token.Error

// An IOError records a failed read or write of a stream or file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return "ini: " + e.Op + ": " + e.Err.Error()
	}
	return "ini: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap makes an IOError match both ErrIO and its cause.
func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

// A TypeMismatchError describes an option value that cannot be converted to
// the type of the property it is bound to.
type TypeMismatchError struct {
	Property string
	Value    string
	Type     reflect.Type
	Err      error
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("ini: cannot convert %q to %s for property %s", e.Value, e.Type, e.Property)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeMismatchError) Unwrap() error { return e.Err }

// A MissingPropertyError is returned in strict mode when a declared property
// has no corresponding option or section.
type MissingPropertyError struct {
	Property string
}

func (e *MissingPropertyError) Error() string {
	return "ini: missing property " + e.Property
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}
