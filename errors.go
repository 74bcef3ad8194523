package parinfer

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes of request construction.
var (
	// ErrInvalidArguments indicates the command line could not be parsed.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrInvalidInput indicates a value was present but not acceptable.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIO indicates input could not be read.
	ErrIO = errors.New("i/o failure")
	// ErrDecode indicates a request document could not be decoded.
	ErrDecode = errors.New("decode failure")
)

// ArgumentError wraps a command line parse failure such as an unknown flag
// or a flag missing its value.
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string {
	return e.Err.Error()
}

func (e *ArgumentError) Unwrap() []error {
	return []error{ErrInvalidArguments, e.Err}
}

// ValidationError reports a value that was supplied but rejected.
type ValidationError struct {
	Field   string // flag or environment variable name
	Value   string // offending value as supplied
	Message string
	Err     error // underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid value %q: %s", e.Value, e.Message)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// IOError reports a failed read of an input stream or file.
type IOError struct {
	Operation string // e.g. "read"
	Path      string // "stdin" or a file path
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// DecodeError reports a malformed request document.
type DecodeError struct {
	Format  string // e.g. "JSON"
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s request: %s", e.Format, e.Message)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrDecode, e.Err}
	}
	return []error{ErrDecode}
}
