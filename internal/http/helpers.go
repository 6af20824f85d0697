package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"finviz/internal/core"
	applog "finviz/internal/log"
	"finviz/internal/storage"

	"log/slog"
)

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func logRequest(ctx context.Context, requestID string, r *http.Request, status int, clientIP string, duration time.Duration) {
	slog.InfoContext(ctx, "Request completed",
		applog.FieldRequestID, requestID,
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path,
		applog.FieldStatusCode, status,
		applog.FieldDuration, duration.Milliseconds(),
		applog.FieldClientIP, clientIP)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", applog.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps storage and validation failures onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrDuplicateBudget):
		writeError(w, http.StatusConflict, err.Error())
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	var invalid *core.InvalidInputError
	if errors.As(err, &invalid) {
		return true
	}
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrUnknownCategory) ||
		errors.Is(err, core.ErrInvalidType)
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// cachedView serves a derived view from the cache, computing and memoizing
// it on miss. Keys carry the view name plus any request parameters.
func cachedView[T any](s *Server, key string, compute func() (T, error)) (T, error) {
	if hit, found := s.viewCache.Get(key); found {
		if data, ok := hit.(T); ok {
			return data, nil
		}
	}

	data, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	s.viewCache.Set(key, data)
	return data, nil
}
