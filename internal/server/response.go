package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
)

// Error codes beyond the engine's INVALID_INPUT and UNKNOWN_ALGORITHM.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeHistoryDisabled = "HISTORY_DISABLED"
	CodeInternal        = "INTERNAL_ERROR"
)

// Response is the standard envelope for every API response.
type Response struct {
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error"`
}

// Pagination holds pagination metadata for list endpoints.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// APIError is a structured error returned by the API.
type APIError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// engineError converts an engine error into an APIError. Anything that
// is not a *scheduler.Error becomes INTERNAL_ERROR.
func engineError(err error) *APIError {
	var se *scheduler.Error
	if errors.As(err, &se) {
		return &APIError{Code: se.Kind.Code(), Field: se.Field, Message: se.Message}
	}
	return &APIError{Code: CodeInternal, Message: err.Error()}
}

// statusFor maps an APIError code to an HTTP status.
func statusFor(apiErr *APIError) int {
	switch apiErr.Code {
	case CodeInternal:
		return http.StatusInternalServerError
	case CodeNotFound:
		return http.StatusNotFound
	case CodeHistoryDisabled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// requestID generates a unique request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

// respondOK writes a success response with the standard envelope.
func respondOK(w http.ResponseWriter, reqID string, data any) {
	respondJSON(w, http.StatusOK, reqID, data, nil, nil)
}

// respondList writes a success response with pagination.
func respondList(w http.ResponseWriter, reqID string, data any, pg *Pagination) {
	respondJSON(w, http.StatusOK, reqID, data, pg, nil)
}

// respondError writes an error response with the standard envelope.
func respondError(w http.ResponseWriter, reqID string, apiErr *APIError) {
	respondJSON(w, statusFor(apiErr), reqID, nil, nil, apiErr)
}

func respondJSON(w http.ResponseWriter, status int, reqID string, data any, pg *Pagination, apiErr *APIError) {
	resp := Response{
		RequestID:  reqID,
		Timestamp:  time.Now().UTC(),
		Data:       data,
		Pagination: pg,
		Error:      apiErr,
	}
	if apiErr != nil {
		resp.Status = "error"
	} else {
		resp.Status = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
