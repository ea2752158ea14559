// Package handler implements the JSON API surface of CampaignBridge.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/campaignbridge/campaignbridge/internal/domain"
)

// ErrorResponse writes an error response to the client, mapping domain
// error codes to HTTP status codes. The API is JSON-only.
func ErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	op := domain.ErrorOp(err)

	status := ErrorCodeToHTTPStatus(code)

	logError(logger, r, err, code, op, status)
	writeJSONError(w, status, code, message)
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge // 413
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	case domain.ENOTIMPL:
		return http.StatusNotImplemented // 501
	default:
		return http.StatusInternalServerError // 500
	}
}

// NotFoundResponse is a convenience wrapper for 404 errors.
func NotFoundResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	err := domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found")
	ErrorResponse(w, r, logger, err)
}

// InternalErrorResponse logs the error and returns a generic 500 response.
// The underlying error details are hidden from the user.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	wrappedErr := domain.Internal(err, "", "An unexpected error occurred")
	ErrorResponse(w, r, logger, wrappedErr)
}

// logError logs the error with appropriate level based on status code.
func logError(logger *slog.Logger, r *http.Request, err error, code, op string, status int) {
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
	}

	if op != "" {
		attrs = append(attrs, "op", op)
	}

	// 5xx are server-side issues, 4xx are expected client errors
	if status >= 500 {
		logger.Error("server error", attrs...)
	} else if status >= 400 {
		logger.Info("client error", attrs...)
	}
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
