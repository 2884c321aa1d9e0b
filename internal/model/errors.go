package model

import "errors"

var (
	// ErrNotFound is returned by stores when no active row matches.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by stores when a uniqueness constraint rejects a write.
	ErrConflict = errors.New("conflict")
)

// ErrorKind classifies domain failures.
type ErrorKind int

const (
	// KindInternal is any failure not otherwise classified.
	KindInternal ErrorKind = iota
	// KindInvalidInput is malformed or missing input.
	KindInvalidInput
	// KindNotFound targets a missing or soft-deleted record.
	KindNotFound
	// KindConflict is a name or email uniqueness violation.
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified domain failure with a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewInvalidInput creates an InvalidInput error.
func NewInvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// NewNotFound creates a NotFound error.
func NewNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// NewConflict creates a Conflict error.
func NewConflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
