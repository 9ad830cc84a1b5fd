// Package handler holds the HTTP helpers shared by the storefront and admin
// handlers: the JSON envelope, error rendering and request decoding.
package handler

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/telemetry"
)

// ============================================================================
// ERROR RESPONSES
// ============================================================================

// ErrorBody is the "error" member of a failed response envelope.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse renders err with the status of its domain code. Internal
// errors are logged at error level and captured; their details never reach
// the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := ErrorCodeToHTTPStatus(code)

	logError(r, err, code, status)
	if status >= http.StatusInternalServerError {
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]any{
			"op":     domain.ErrorOp(err),
			"path":   r.URL.Path,
			"method": r.Method,
		})
	}

	if !acceptsJSON(r) {
		http.Error(w, message, status)
		return
	}

	writeJSON(w, status, Envelope{
		Status:  StatusError,
		Message: message,
		Error:   &ErrorBody{Code: code, Message: message, Fields: domain.GetValidationFields(err)},
	})
}

// ValidationErrorResponse renders field failures. The envelope carries the
// per-field messages under error.fields; other errors render as usual.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, err)
}

func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found"))
}

func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.ErrAuthRequired)
}

func ForbiddenResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.EFORBIDDEN, "", "You don't have permission to access this resource"))
}

// InternalErrorResponse logs err and renders a generic 500.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "An unexpected error occurred"))
}

func TooManyRequestsResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ERATELIMIT, "", "Too many requests"))
}

func TooLargeResponse(w http.ResponseWriter, r *http.Request, message string) {
	ErrorResponse(w, r, domain.Errorf(domain.ETOOLARGE, "", "%s", message))
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID, domain.EINSUFFICIENTSTOCK, domain.EINVALIDSTATE:
		return http.StatusBadRequest // 400
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized // 401
	case domain.EFORBIDDEN:
		return http.StatusForbidden // 403
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.EGONE:
		return http.StatusGone // 410
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge // 413
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests // 429
	case domain.ENOTIMPL:
		return http.StatusNotImplemented // 501
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

func logError(r *http.Request, err error, code string, status int) {
	logger := zerolog.Ctx(r.Context())

	var event *zerolog.Event
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	} else {
		event = logger.Debug()
	}
	event.Err(err).
		Str("code", code).
		Str("op", domain.ErrorOp(err)).
		Int("status", status).
		Msg("request failed")
}

// acceptsJSON reports whether the error should be rendered as JSON. This is
// an API, so JSON is the default; only a client asking for HTML without
// mentioning JSON gets plain text.
func acceptsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")

	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	if strings.HasSuffix(r.URL.Path, ".json") {
		return true
	}

	return !strings.Contains(accept, "text/html")
}
