// SPDX-License-Identifier: MPL-2.0

package fieldmap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidField is returned when an exports or imports field is malformed.
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidRequest is returned when a lookup key has the wrong shape.
	ErrInvalidRequest = errors.New("invalid field request")
	// ErrInvalidTarget is returned when a mapped target violates the target rules.
	ErrInvalidTarget = errors.New("invalid field target")
)

// Error describes a malformed field, request or target.
type Error struct {
	// Kind is one of ErrInvalidField, ErrInvalidRequest or ErrInvalidTarget.
	Kind error
	// Value is the offending key, request or target.
	Value string
	// Reason explains the violated rule.
	Reason string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Value, e.Reason)
}

// Unwrap returns the error kind for errors.Is() compatibility.
func (e *Error) Unwrap() error { return e.Kind }

func fieldError(value, reason string) error {
	return &Error{Kind: ErrInvalidField, Value: value, Reason: reason}
}

func requestError(value, reason string) error {
	return &Error{Kind: ErrInvalidRequest, Value: value, Reason: reason}
}

func targetError(value, reason string) error {
	return &Error{Kind: ErrInvalidTarget, Value: value, Reason: reason}
}
