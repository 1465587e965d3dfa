// Package apperror defines the closed set of domain failures returned by the
// auth and task modules. Errors carry a Kind tag so the HTTP boundary can map
// them to status codes with a single switch.
package apperror

import (
	"errors"
	"strings"
)

// Kind classifies a domain failure.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindOwnership          Kind = "ownership"
	KindForbidden          Kind = "forbidden"
	KindAlreadyExists      Kind = "already_exists"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindValidation         Kind = "validation"
)

// Operation-specific codes.
const (
	CodeTaskNotFound       = "TaskNotFound"
	CodeTaskOwnership      = "TaskOwnership"
	CodeForbidden          = "Forbidden"
	CodeEmailAlreadyExists = "EmailAlreadyExists"
	CodeInvalidCredentials = "InvalidCredentials"
	CodeUserNotFound       = "UserNotFound"

	CodeCreateTaskValidation       = "CreateTaskValidation"
	CodeGetTaskValidation          = "GetTaskValidation"
	CodeListTasksValidation        = "ListTasksValidation"
	CodeKanbanValidation           = "KanbanValidation"
	CodeUpdateTaskValidation       = "UpdateTaskValidation"
	CodeUpdateStatusTaskValidation = "UpdateStatusTaskValidation"
	CodeDeleteTaskValidation       = "DeleteTaskValidation"
	CodeSignUpValidation           = "SignUpValidation"
	CodeSignInValidation           = "SignInValidation"
	CodeActivityValidation         = "ActivityValidation"
)

// Error is a tagged domain failure. It is JSON-serializable so it can travel
// inside request-reply envelopes between modules without losing its kind.
type Error struct {
	Kind    Kind     `json:"kind"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Code + ": " + e.Message
	}
	return e.Code + ": " + e.Message + " (" + strings.Join(e.Details, "; ") + ")"
}

// StoreValidationError is raised by repositories when a record violates a
// storage constraint. Services rewrap it into an operation-specific
// Validation error.
type StoreValidationError struct {
	Message string
	Details []string
}

func (e *StoreValidationError) Error() string {
	return e.Message
}

// NewStoreValidation builds a StoreValidationError from per-field messages.
func NewStoreValidation(details ...string) *StoreValidationError {
	msg := "validation failed"
	if len(details) == 1 {
		msg = details[0]
	}
	return &StoreValidationError{Message: msg, Details: details}
}

// TaskNotFound reports a missing task.
func TaskNotFound() *Error {
	return &Error{Kind: KindNotFound, Code: CodeTaskNotFound, Message: "task not found"}
}

// UserNotFound reports a missing user.
func UserNotFound() *Error {
	return &Error{Kind: KindNotFound, Code: CodeUserNotFound, Message: "user not found"}
}

// TaskOwnership reports that the caller has no rights over the task.
func TaskOwnership(message string) *Error {
	return &Error{Kind: KindOwnership, Code: CodeTaskOwnership, Message: message}
}

// Forbidden reports a disallowed query scope.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: CodeForbidden, Message: message}
}

// EmailAlreadyExists reports a duplicate sign-up.
func EmailAlreadyExists() *Error {
	return &Error{Kind: KindAlreadyExists, Code: CodeEmailAlreadyExists, Message: "email is already registered"}
}

// InvalidCredentials is returned for both unknown emails and wrong passwords.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Code: CodeInvalidCredentials, Message: "invalid email or password"}
}

// Validation builds a Validation error with the given code.
func Validation(code, message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, Details: details}
}

// WrapValidation rewraps a StoreValidationError under code. Any other error
// is returned unchanged.
func WrapValidation(code string, err error) error {
	var sv *StoreValidationError
	if errors.As(err, &sv) {
		return Validation(code, sv.Message, sv.Details...)
	}
	return err
}

// As extracts a domain error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}
