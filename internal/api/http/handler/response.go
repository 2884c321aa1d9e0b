package handler

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/dtroode/users-server/internal/api/http/middleware"
	"github.com/dtroode/users-server/internal/logger"
	"github.com/dtroode/users-server/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	msgInternal = "Internal Server Error"
	msgTimeout  = "Request timed out"
)

// Response is the envelope returned by every API endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// HandlerFunc is an http.HandlerFunc that reports failures as errors.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap converts fn into an http.HandlerFunc that renders returned errors as envelopes.
func Wrap(logger *logger.Logger, fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		status, message := mapError(err)
		kind := model.KindOf(err)
		if kind == model.KindInternal {
			logger.Error("request failed",
				"request_id", middleware.RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"error", err.Error())
		} else {
			logger.Debug("request rejected",
				"request_id", middleware.RequestIDFromContext(r.Context()),
				"kind", kind.String(),
				"message", message)
		}

		writeJSON(w, status, Response{Success: false, Message: message})
	}
}

func mapError(err error) (int, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, msgTimeout
	}

	switch model.KindOf(err) {
	case model.KindInvalidInput:
		return http.StatusBadRequest, err.Error()
	case model.KindNotFound:
		return http.StatusNotFound, err.Error()
	case model.KindConflict:
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}
