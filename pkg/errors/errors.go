package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Setup errors. These abort the run before anything is modified.
	ErrNoLinkMechanism  ErrorCode = "NO_LINK_MECHANISM"
	ErrManifestNotFound ErrorCode = "MANIFEST_NOT_FOUND"
	ErrManifestParse    ErrorCode = "MANIFEST_PARSE"
	ErrLock             ErrorCode = "LOCK"

	// Item errors. These are reported as warnings and the run continues.
	ErrSourceNotFound ErrorCode = "SOURCE_NOT_FOUND"
	ErrLinkCreate     ErrorCode = "LINK_CREATE"
	ErrLinkRemove     ErrorCode = "LINK_REMOVE"
	ErrLinkResolve    ErrorCode = "LINK_RESOLVE"
	ErrDetachSource   ErrorCode = "DETACH_SOURCE"
	ErrDetachCopy     ErrorCode = "DETACH_COPY"

	// Settings and ledger errors
	ErrSettingsParse ErrorCode = "SETTINGS_PARSE"
	ErrSettingsWrite ErrorCode = "SETTINGS_WRITE"
	ErrLedgerWrite   ErrorCode = "LEDGER_WRITE"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// Error represents a structured error with code and details
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an Error
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var aitkErr *Error
	if errors.As(err, &aitkErr) {
		return aitkErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an Error
func GetErrorCode(err error) ErrorCode {
	var aitkErr *Error
	if errors.As(err, &aitkErr) {
		return aitkErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an Error
func GetErrorDetails(err error) map[string]interface{} {
	var aitkErr *Error
	if errors.As(err, &aitkErr) {
		return aitkErr.Details
	}
	return nil
}

// IsFatal reports whether the error must abort the whole run
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case ErrNoLinkMechanism, ErrManifestNotFound, ErrManifestParse, ErrLock,
		ErrConfigLoad, ErrConfigParse, ErrConfigInvalid:
		return true
	}
	return false
}

// Message returns the human-readable part of err without its code prefix
func Message(err error) string {
	var aitkErr *Error
	if !errors.As(err, &aitkErr) {
		return err.Error()
	}
	if aitkErr.Wrapped != nil {
		return fmt.Sprintf("%s: %v", aitkErr.Message, aitkErr.Wrapped)
	}
	return aitkErr.Message
}
