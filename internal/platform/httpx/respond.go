// Package httpx provides JSON response helpers shared by all HTTP handlers.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard success response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorEnvelope is the standard denial/failure response body. Clients must
// dispatch on ErrorCode, never on the message text.
type ErrorEnvelope struct {
	ErrorCode int    `json:"error_code"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// OK writes a success envelope with status 200.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a success envelope with status 201.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes an error envelope with the given HTTP status and stable code.
func Fail(w http.ResponseWriter, status, code int, message string) {
	JSON(w, status, ErrorEnvelope{ErrorCode: code, Success: false, Message: message})
}

// DecodeJSON decodes the JSON request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
