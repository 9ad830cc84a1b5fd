package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/shopery/internal/pagination"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every JSON response.
//
//	{status, message, data[, pagination]}   on success
//	{status, message, error}                on failure
type Envelope struct {
	Status     string     `json:"status"`
	Message    string     `json:"message"`
	Data       any        `json:"data,omitempty"`
	Pagination any        `json:"pagination,omitempty"`
	Error      *ErrorBody `json:"error,omitempty"`
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, message, data)
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, message, data)
}

// CursorPage writes a cursor page with its pagination block.
func CursorPage[T any](w http.ResponseWriter, message string, page pagination.Page[T]) {
	writeJSON(w, http.StatusOK, Envelope{
		Status:     StatusSuccess,
		Message:    message,
		Data:       page.Data,
		Pagination: page.Pagination,
	})
}

// OffsetPage writes an admin listing page.
func OffsetPage[T any](w http.ResponseWriter, message string, data []T, info pagination.PageInfo) {
	if data == nil {
		data = []T{}
	}
	writeJSON(w, http.StatusOK, Envelope{
		Status:     StatusSuccess,
		Message:    message,
		Data:       data,
		Pagination: info,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
