package sigmf

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported for per-file failures. The aggregator records these
// verbatim in the failure list, so the strings are part of the CLI surface.
const (
	KindIO        = "io"
	KindMalformed = "malformed_metadata"
	KindSemantic  = "semantic_validation"
)

// Error tags a failure with a kind and, where known, the path of the field
// that caused it (for example "captures[2].core:frequency").
type Error struct {
	kind  string
	path  string
	msg   string
	cause error
}

// ErrorKind returns the error's classification string. It satisfies the
// classifier interface the aggregator uses for failure records.
func (e *Error) ErrorKind() string { return e.kind }

// FieldPath returns the dotted path of the offending field, or "".
func (e *Error) FieldPath() string { return e.path }

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.path != "" {
		parts = append(parts, e.path)
	}
	if e.msg != "" {
		parts = append(parts, e.msg)
	}
	if e.cause != nil {
		parts = append(parts, e.cause.Error())
	}
	if len(parts) == 0 {
		return e.kind
	}
	return fmt.Sprintf("%s: %s", e.kind, strings.Join(parts, ": "))
}

func (e *Error) Unwrap() error { return e.cause }

// IOError wraps a filesystem failure while reading a metadata file.
func IOError(err error) error {
	return &Error{kind: KindIO, cause: err}
}

// Malformedf reports a structural or type violation at the given field path.
func Malformedf(path, format string, args ...any) error {
	return &Error{kind: KindMalformed, path: path, msg: fmt.Sprintf(format, args...)}
}

// MalformedErr wraps an underlying decode error at the given field path.
func MalformedErr(path string, err error) error {
	return &Error{kind: KindMalformed, path: path, cause: err}
}

// Semanticf reports a well-typed value that is out of domain, such as a
// probability above one.
func Semanticf(path, format string, args ...any) error {
	return &Error{kind: KindSemantic, path: path, msg: fmt.Sprintf(format, args...)}
}

// KindOf classifies err, defaulting to KindIO for plain filesystem errors and
// KindMalformed for anything else that surfaced during decoding.
func KindOf(err error) string {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.kind
	}
	return KindIO
}
