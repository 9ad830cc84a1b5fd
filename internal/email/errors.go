package email

import (
	"errors"
	"fmt"
)

// ============================================================================
// EMAIL ERROR CODES
// ============================================================================
// These constants mirror domain error codes so that the worker can classify
// failures without importing the domain package.

const (
	codeInternal = "internal"
	codeNotFound = "not_found"
	codeInvalid  = "invalid"
)

// ============================================================================
// EMAIL ERROR TYPE
// ============================================================================

// EmailError represents an email-specific error with a code and message.
type EmailError struct {
	Code    string
	Message string
}

func (e *EmailError) Error() string {
	return e.Message
}

// ErrorCode returns the error code.
func (e *EmailError) ErrorCode() string {
	return e.Code
}

func newEmailError(code, message string) *EmailError {
	return &EmailError{Code: code, Message: message}
}

// ============================================================================
// EMAIL DOMAIN ERRORS
// ============================================================================

var (
	// ErrInvalidToAddress is returned when a message has no usable recipient.
	ErrInvalidToAddress = newEmailError(codeInvalid, "Invalid to email address")

	// ErrProviderRejected is returned when the provider answers with an error status.
	ErrProviderRejected = newEmailError(codeInternal, "Email provider rejected the message")
)

// ErrTemplateNotFound creates a template not found error.
func ErrTemplateNotFound(templateName string) error {
	return &EmailError{
		Code:    codeNotFound,
		Message: fmt.Sprintf("Email template %s not found", templateName),
	}
}

// IsPermanent reports whether retrying err cannot succeed.
func IsPermanent(err error) bool {
	var e *EmailError
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == codeNotFound || e.Code == codeInvalid
}
