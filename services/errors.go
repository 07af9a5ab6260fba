package services

import (
	"errors"
	"fmt"

	"todoshare/models"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

// Error is a user-reportable failure. Message is safe to show to clients;
// the wrapped error is only logged.
type Error struct {
	kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

func validationError(msg string) error   { return &Error{kind: KindValidation, Message: msg} }
func unauthorizedError(msg string) error { return &Error{kind: KindUnauthorized, Message: msg} }
func forbiddenError(msg string) error    { return &Error{kind: KindForbidden, Message: msg} }
func notFoundError(msg string) error     { return &Error{kind: KindNotFound, Message: msg} }
func conflictError(msg string) error     { return &Error{kind: KindConflict, Message: msg} }

func internalError(msg string, err error) error {
	return &Error{kind: KindInternal, Message: msg, err: err}
}

// ExistingFriendshipError is returned when a request targets a pair that
// already has an edge. Status tells the caller which one.
type ExistingFriendshipError struct {
	Status models.FriendshipStatus
}

func (e *ExistingFriendshipError) Error() string {
	return fmt.Sprintf("friendship already exists with status: %s", e.Status)
}

func (e *ExistingFriendshipError) Kind() Kind { return KindConflict }

// KindOf reports the kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// PublicMessage returns the text that may be shown to a client.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var ef *ExistingFriendshipError
	if errors.As(err, &ef) {
		return ef.Error()
	}
	return "internal server error"
}
