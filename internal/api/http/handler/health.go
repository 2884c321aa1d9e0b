package handler

import (
	"net/http"

	"github.com/dtroode/users-server/internal/logger"
	"github.com/dtroode/users-server/internal/model"
)

// Health serves liveness and readiness endpoints.
type Health struct {
	db     model.Pinger
	logger *logger.Logger
}

// NewHealth creates a new Health handler.
func NewHealth(db model.Pinger, logger *logger.Logger) *Health {
	return &Health{db: db, logger: logger}
}

// Root reports that the API is running.
func (h *Health) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "CRUD API is running!"})
}

// Ready reports whether the database is reachable.
func (h *Health) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Warn("database ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Message: "database unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "ok"})
}
