package ai

import (
	"errors"
	"fmt"
)

// Kind classifies a failure talking to Gemini so callers can switch on it
// instead of inspecting message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNoFile
	KindTransport
	KindStatus
	KindParse
	KindNotConfigured
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNoFile:
		return "no_file"
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	case KindNotConfigured:
		return "not_configured"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind   Kind
	Op     string
	Msg    string
	Status int    // set for KindStatus
	Body   string // raw response body, when there was one
	Err    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Kind == KindStatus {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrNoFile is returned by generate calls made before any successful upload.
var ErrNoFile = &Error{Kind: KindNoFile, Msg: "no PDF uploaded, upload the PDF first"}

func newError(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// InvalidInput builds a KindInvalidInput error for validation done outside this package.
func InvalidInput(op, msg string) error {
	return newError(KindInvalidInput, op, msg, nil)
}

// KindOf reports the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the upstream HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindStatus {
		return e.Status
	}
	return 0
}
