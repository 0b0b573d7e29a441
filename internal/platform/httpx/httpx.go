// Package httpx defines the JSON envelopes every handler responds with.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/madkurv/api/internal/platform/requestctx"
)

const maxBodyBytes = 1 << 20

// Error is the wire shape of an API failure.
type Error struct {
	Status  int            `json:"status"`
	Code    string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func newError(status int, code, message string) Error {
	return Error{Status: status, Code: code, Message: clip(message, 512)}
}

func BadRequest(message string) Error {
	return newError(http.StatusBadRequest, "bad_request", message)
}

func Unauthorized(message string) Error {
	return newError(http.StatusUnauthorized, "unauthorized", message)
}

func Forbidden(message string) Error {
	return newError(http.StatusForbidden, "forbidden", message)
}

func NotFound(message string) Error {
	return newError(http.StatusNotFound, "not_found", message)
}

func Conflict(message string) Error {
	return newError(http.StatusConflict, "conflict", message)
}

func Unprocessable(message string) Error {
	return newError(http.StatusUnprocessableEntity, "unprocessable", message)
}

func Internal(message string) Error {
	return newError(http.StatusInternalServerError, "internal_server_error", message)
}

// WithDetails attaches extra JSON-serialisable context to the payload.
func (e Error) WithDetails(details map[string]any) Error {
	if len(details) == 0 {
		return e
	}
	copied := make(map[string]any, len(details))
	for k, v := range details {
		copied[k] = v
	}
	e.Details = copied
	return e
}

type errorEnvelope struct {
	Error
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// WriteError renders the error envelope, stamping the request and trace ids
// from context so clients can quote them in support tickets.
func WriteError(ctx context.Context, w http.ResponseWriter, err Error) {
	if err.Status == 0 {
		err.Status = http.StatusInternalServerError
	}
	env := errorEnvelope{
		Error:     err,
		RequestID: clip(middleware.GetReqID(ctx), 80),
		TraceID:   clip(requestctx.TraceID(ctx), 64),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	_ = json.NewEncoder(w).Encode(env)
}

// WriteJSON renders a success payload.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// DecodeJSON reads a request body into dst, rejecting unknown fields and
// bodies over one megabyte.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second decode catches trailing garbage after the JSON document.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("httpx: request body must contain a single JSON document")
	}
	return nil
}

func clip(value string, limit int) string {
	value = strings.TrimSpace(value)
	if len(value) > limit {
		return value[:limit]
	}
	return value
}
