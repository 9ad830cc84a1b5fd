package domain

import (
	"errors"
	"fmt"
)

// Application error codes.
// Handlers map these to HTTP status codes.
const (
	ECONFLICT          = "conflict"           // 409 - duplicate email, slug, SKU, review
	EINTERNAL          = "internal"           // 500 - details hidden from clients
	EINVALID           = "invalid"            // 400 - malformed input, unsupported enum value
	ENOTFOUND          = "not_found"          // 404
	EUNAUTHORIZED      = "unauthorized"       // 401
	EFORBIDDEN         = "forbidden"          // 403
	ENOTIMPL           = "not_implemented"    // 501
	ERATELIMIT         = "rate_limit"         // 429
	EGONE              = "gone"               // 410
	ETOOLARGE          = "too_large"          // 413
	EINSUFFICIENTSTOCK = "insufficient_stock" // 400 - requested quantity exceeds stock
	EINVALIDSTATE      = "invalid_state"      // 400 - not allowed in the current lifecycle state
	EUNAVAILABLE       = "unavailable"        // 503 - a dependency is down
)

// genericInternalMessage replaces the message of every internal error shown to a client.
const genericInternalMessage = "An internal error occurred. Please try again later."

// Error is the application error type. Services return it so that the HTTP layer
// can render a stable {status, message, error} envelope without inspecting
// storage errors.
type Error struct {
	// Code is a machine-readable error code (EINVALID, ENOTFOUND, ...).
	Code string

	// Message is safe to show to clients.
	Message string

	// Op is the operation that failed, e.g. "cart.add_item". Logged, never rendered.
	Op string

	// Err is the wrapped cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error with the same code and message, so that
// package-level sentinel errors match copies that carry a different Op.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// ErrorCode extracts the code from err. Non-domain errors are EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return EINVALID
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return EINTERNAL
}

// ErrorMessage extracts the client-facing message from err.
// Internal and unknown errors yield a generic message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return "Validation failed"
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Code == EINTERNAL {
			return genericInternalMessage
		}
		return e.Message
	}

	return genericInternalMessage
}

// ErrorOp extracts the operation from err (for logging).
func ErrorOp(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Errorf creates a domain error with a formatted message.
// Example: domain.Errorf(domain.EINVALID, "order.update_status", "unsupported status: %s", s)
func Errorf(code, op, format string, args ...any) error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps err with a code and operation. Returns nil if err is nil.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// WithOp returns a copy of a sentinel domain error tagged with op.
// Non-domain errors are returned unchanged.
func WithOp(err error, op string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	cp := *e
	cp.Op = op
	return &cp
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// =============================================================================
// Validation Errors
// =============================================================================

// ValidationError holds one or more field-level failures.
type ValidationError struct {
	// Fields maps field names to messages.
	Fields map[string]string

	Op string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for field, msg := range e.Fields {
			if e.Op != "" {
				return fmt.Sprintf("%s: %s: %s", e.Op, field, msg)
			}
			return fmt.Sprintf("%s: %s", field, msg)
		}
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: validation failed for %d fields", e.Op, len(e.Fields))
	}
	return fmt.Sprintf("validation failed for %d fields", len(e.Fields))
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(op, field, message string) error {
	return &ValidationError{
		Op:     op,
		Fields: map[string]string{field: message},
	}
}

// AddFieldError adds a field failure to err, creating a ValidationError if needed.
func AddFieldError(err error, field, message string) error {
	var ve *ValidationError
	if err != nil && errors.As(err, &ve) {
		ve.Fields[field] = message
		return ve
	}

	return &ValidationError{
		Fields: map[string]string{field: message},
	}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetValidationFields returns the field failures of a ValidationError, or nil.
func GetValidationFields(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// =============================================================================
// Constructors
// =============================================================================

// NotFound creates a not found error for a resource.
// Example: domain.NotFound("product.get", "product", id.String())
func NotFound(op, resource, identifier string) error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
	}
}

func Unauthorized(op, message string) error {
	return &Error{Code: EUNAUTHORIZED, Op: op, Message: message}
}

func Forbidden(op, message string) error {
	return &Error{Code: EFORBIDDEN, Op: op, Message: message}
}

// Invalid creates a single-issue validation error.
func Invalid(op, message string) error {
	return &Error{Code: EINVALID, Op: op, Message: message}
}

func Conflict(op, message string) error {
	return &Error{Code: ECONFLICT, Op: op, Message: message}
}

// InsufficientStock reports that a product cannot cover the requested quantity.
func InsufficientStock(op, productName string, available, requested int32) error {
	return &Error{
		Code:    EINSUFFICIENTSTOCK,
		Op:      op,
		Message: fmt.Sprintf("Insufficient stock for %s: %d available, %d requested", productName, available, requested),
	}
}

// InvalidState reports an operation not allowed in the entity's current state.
func InvalidState(op, message string) error {
	return &Error{Code: EINVALIDSTATE, Op: op, Message: message}
}

// Internal wraps err as an internal error. The message is logged, not rendered.
func Internal(err error, op, message string) error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
