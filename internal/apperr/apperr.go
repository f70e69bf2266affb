// Package apperr classifies failures so callers and HTTP handlers can react
// by kind without parsing error strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindValidation marks user-correctable input problems.
	KindValidation Kind = iota + 1
	// KindNotFound marks operations on ids that do not exist.
	KindNotFound
	// KindUpstream marks failures of external services (LLM, embedding,
	// vector store, database, broker).
	KindUpstream
	// KindConsistency marks state conflicts that must be surfaced, never
	// silently patched over (e.g. collection dimensionality mismatch).
	KindConsistency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindConsistency:
		return "consistency"
	default:
		return "unknown"
	}
}

// Error carries a kind, a user-safe message and the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Upstream(err error, format string, args ...any) *Error {
	return Wrap(KindUpstream, err, format, args...)
}

func Consistency(format string, args ...any) *Error {
	return New(KindConsistency, format, args...)
}

// KindOf returns the kind of err, or 0 if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err (or anything it wraps) has the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// UserMessage returns the user-safe message of err, or fallback when err is
// not an *Error. Full detail stays in logs.
func UserMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return fallback
}
