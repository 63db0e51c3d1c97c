// Package apperr defines the error kinds surfaced to the UI and the
// success/error envelope every public operation reports.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the UI.
type Kind int

const (
	KindIOFailure Kind = iota
	KindNotConfigured
	KindSkinFolderNotFound
	KindUnsupportedFormat
	KindDuplicateName
	KindNotFound
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotConfigured:
		return "not_configured"
	case KindSkinFolderNotFound:
		return "skin_folder_not_found"
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindDuplicateName:
		return "duplicate_name"
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	default:
		return "io_failure"
	}
}

// Error carries a Kind, a user-facing message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg != "" {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of the given kind.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NotConfigured reports a missing configuration field.
func NotConfigured(msg string) error {
	return &Error{Kind: KindNotConfigured, Msg: msg}
}

// SkinFolderNotFound reports a resolved skin path that does not exist.
func SkinFolderNotFound(path string) error {
	return &Error{Kind: KindSkinFolderNotFound, Msg: fmt.Sprintf("skin folder not found: %s", path)}
}

// UnsupportedFormat reports bytes or files of a type we do not accept.
func UnsupportedFormat(msg string) error {
	return &Error{Kind: KindUnsupportedFormat, Msg: msg}
}

// DuplicateName reports a case-insensitive preset name collision.
func DuplicateName(name string) error {
	return &Error{Kind: KindDuplicateName, Msg: fmt.Sprintf("a preset named %q already exists", name)}
}

// NotFound reports a missing preset or slot.
func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("%s not found", what)}
}

// Invalid reports a malformed argument.
func Invalid(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalid, Msg: fmt.Sprintf(format, args...)}
}

// IO wraps an unexpected filesystem error. Errors that already carry a
// Kind are returned unchanged.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindIOFailure, Msg: op, Err: err}
}

// KindOf returns the Kind of err, or KindIOFailure for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindIOFailure
}

// Is reports whether err is an Error of the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
