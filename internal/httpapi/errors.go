package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"ai4l/internal/generator"
	"ai4l/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps generator errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case generator.IsInvalidParams(err):
		return http.StatusBadRequest
	case generator.IsModelNotFound(err):
		return http.StatusNotFound
	case generator.IsTooBusy(err):
		return http.StatusTooManyRequests
	case generator.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
