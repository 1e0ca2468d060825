// Package apperr classifies every failed backend call into a small set of
// kinds and turns them into user-facing notifications.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind is the class a failure falls into
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindServer         Kind = "server"
	KindNetwork        Kind = "network"
	KindUnknown        Kind = "unknown"
)

// Error is a classified failure. Status is 0 when no response was received.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Op      string // "category.action" of the call that failed
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = DefaultMessage(e.Kind)
	}
	prefix := string(e.Kind)
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", prefix, e.Status, msg)
	}
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s: %s: %v", prefix, msg, e.Err)
	}
	return prefix + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// FromStatus classifies an HTTP response status. message is the server's
// error text when it sent one.
func FromStatus(status int, message string) *Error {
	return &Error{Kind: kindForStatus(status), Status: status, Message: message}
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthentication
	case status == http.StatusForbidden:
		return KindAuthorization
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	case status >= 500 && status < 600:
		return KindServer
	}
	return KindUnknown
}

// FromTransport classifies a failure where no response came back
func FromTransport(err error) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindUnknown, Message: "request cancelled", Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}

// Validation builds a client-side validation error that never reached the network
func Validation(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// Classify returns err as an *Error, wrapping unclassified errors as network failures
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return FromTransport(err)
}

// KindOf returns the kind of err, KindUnknown for unclassified errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is a classified error of the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Retryable reports whether a retry could plausibly succeed. Caller mistakes
// (validation, auth, not found) are never retried.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindServer, KindNetwork:
		return true
	}
	return false
}

// DefaultMessage is the text shown when the server did not explain itself
func DefaultMessage(k Kind) string {
	switch k {
	case KindValidation:
		return "Please check the information you entered."
	case KindAuthentication:
		return "Your session has expired. Please log in again."
	case KindAuthorization:
		return "You do not have permission to do that."
	case KindNotFound:
		return "The requested resource was not found."
	case KindServer:
		return "Something went wrong on our side. Please try again."
	case KindNetwork:
		return "Cannot reach the server. Check your connection."
	}
	return "An unexpected error occurred."
}
