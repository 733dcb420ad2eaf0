package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so that transport layers can map them to
// status codes without inspecting concrete error types.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindUnauthorized
	KindConflict
	KindKeyUnavailable
	KindTokenExpired
	KindTokenInvalid
	KindValidation
)

var kindNames = map[ErrorKind]string{
	KindInternal:       "internal error",
	KindNotFound:       "not found",
	KindUnauthorized:   "unauthorized",
	KindConflict:       "conflict",
	KindKeyUnavailable: "key unavailable",
	KindTokenExpired:   "token expired",
	KindTokenInvalid:   "invalid token",
	KindValidation:     "validation error",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a tagged error carrying a kind, a human readable message and an
// optional cause.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind alone, e.g. errors.Is(err, ErrorNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels usable with errors.Is. They match any *Error of the same kind.
var (
	ErrorInternal       = &Error{Kind: KindInternal}
	ErrorNotFound       = &Error{Kind: KindNotFound}
	ErrorUnauthorized   = &Error{Kind: KindUnauthorized}
	ErrorConflict       = &Error{Kind: KindConflict}
	ErrorKeyUnavailable = &Error{Kind: KindKeyUnavailable}
	ErrTokenExpired     = &Error{Kind: KindTokenExpired}
	ErrInvalidToken     = &Error{Kind: KindTokenInvalid}
	ErrorValidation     = &Error{Kind: KindValidation}
)

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func NotFound(msg string) error     { return newError(KindNotFound, msg, nil) }
func Unauthorized(msg string) error { return newError(KindUnauthorized, msg, nil) }
func Conflict(msg string) error     { return newError(KindConflict, msg, nil) }
func Validation(msg string) error   { return newError(KindValidation, msg, nil) }

func KeyUnavailable(msg string, err error) error { return newError(KindKeyUnavailable, msg, err) }
func TokenExpired(err error) error               { return newError(KindTokenExpired, "", err) }
func TokenInvalid(err error) error               { return newError(KindTokenInvalid, "", err) }
func Internal(msg string, err error) error       { return newError(KindInternal, msg, err) }

// KindOf returns the kind of the first *Error in err's chain, or KindInternal
// for errors that carry no kind.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
