package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEvent is returned when an inbound event lacks required fields.
	ErrInvalidEvent = errors.New("invalid dialog event")

	// ErrEmptyHistory is returned when popping an empty history stack.
	ErrEmptyHistory = errors.New("history stack is empty")

	// ErrMalformedHistory is returned when the encoded history cannot be decoded.
	ErrMalformedHistory = errors.New("malformed history")

	// ErrUnknownOption is returned when an options slot value matches no child step.
	ErrUnknownOption = errors.New("unknown option")

	// ErrNoHandler is returned when no route is registered for an intent.
	ErrNoHandler = errors.New("no handler for intent")

	// ErrInvalidStep is returned when a step can neither branch, hand off nor build a prompt.
	ErrInvalidStep = errors.New("invalid step")

	// ErrThrottled is returned by generators when the upstream model rate-limits the caller.
	ErrThrottled = errors.New("generator throttled")

	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")
)

func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
