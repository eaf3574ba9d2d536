// Package errors provides the typed errors of the outer layers: file
// loading, configuration, the CLI and the HTTP API.
//
// The pricing engine never returns these. It degrades to zero and records
// diagnostics instead.
package errors

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
)

// Type classifies an error for exit codes and HTTP statuses
type Type string

const (
	TypeInput        Type = "INPUT_ERROR"    // bad quotation request or flag
	TypeParsing      Type = "PARSING_ERROR"  // undecodable file or body
	TypeRates        Type = "RATES_ERROR"    // unreadable rate tables
	TypeConfig       Type = "CONFIG_ERROR"   // invalid configuration
	TypeNotFound     Type = "NOT_FOUND"      // missing file
	TypeNotSupported Type = "NOT_SUPPORTED"  // unknown format or extension
	TypeInternal     Type = "INTERNAL_ERROR" // everything else
)

// Error is a classified error. Context entries, such as the file being
// read, are rendered after the message in key order.
type Error struct {
	Type    Type           `json:"type"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Type, e.Message)
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for i, k := range keys {
		sep := ", "
		if i == 0 {
			sep = " ("
		}
		fmt.Fprintf(&b, "%s%s=%v", sep, k, e.Context[k])
	}
	if len(e.Context) > 0 {
		b.WriteString(")")
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair and returns e
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func New(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}

func Newf(t Type, format string, args ...any) *Error {
	return New(t, fmt.Sprintf(format, args...))
}

func Wrap(t Type, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause}
}

// TypeOf returns the type of the outermost *Error in err's chain, or
// TypeInternal for unclassified errors.
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

// IsType reports whether err is classified as t
func IsType(err error, t Type) bool {
	return err != nil && TypeOf(err) == t
}

func Input(message string) *Error { return New(TypeInput, message) }

// Inputf reports a rejected request field, e.g. Inputf("overrides[%d]: pax must be positive", i)
func Inputf(format string, args ...any) *Error { return Newf(TypeInput, format, args...) }

func Parsing(message string, cause error) *Error { return Wrap(TypeParsing, message, cause) }

func Rates(message string, cause error) *Error { return Wrap(TypeRates, message, cause) }

func Config(message string, cause error) *Error { return Wrap(TypeConfig, message, cause) }

func NotFound(kind, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", kind, identifier)
}

func NotSupported(what string) *Error {
	return Newf(TypeNotSupported, "not supported: %s", what)
}

func Internal(message string, cause error) *Error { return Wrap(TypeInternal, message, cause) }
