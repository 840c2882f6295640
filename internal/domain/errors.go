package domain

import (
	"errors"
	"strings"
)

// Kind classifies failures that are converted to user-facing replies.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindPreconditionFailed Kind = "precondition_failed"
	KindDelivery           Kind = "delivery"
	KindUnroutable         Kind = "unroutable"
)

// Error carries the failure kind together with the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

// Sentinel values for errors.Is checks. Only the Kind is compared.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrPreconditionFailed = &Error{Kind: KindPreconditionFailed}
	ErrDelivery           = &Error{Kind: KindDelivery}
	ErrUnroutable         = &Error{Kind: KindUnroutable}
)

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Code is picked up by the handler summary logger as err_code.
func (e *Error) Code() string {
	return strings.ToUpper(string(e.Kind))
}

// Validation builds a validation error for op.
func Validation(op, msg string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg, Err: err}
}

// NotFound builds a not-found error for op.
func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

// PreconditionFailed builds an error for actions that require a registered chat.
func PreconditionFailed(op, msg string) error {
	return &Error{Kind: KindPreconditionFailed, Op: op, Msg: msg}
}

// Delivery wraps a per-recipient send failure.
func Delivery(op string, err error) error {
	return &Error{Kind: KindDelivery, Op: op, Err: err}
}

// Unroutable marks an event no handler accepts.
func Unroutable(op, msg string) error {
	return &Error{Kind: KindUnroutable, Op: op, Msg: msg}
}

// KindOf returns the kind of the first *Error in err's chain, or "" for infrastructure errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
