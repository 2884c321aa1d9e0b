package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/dtroode/users-server/internal/logger"
	"github.com/dtroode/users-server/internal/model"
)

// UsersServiceName is the service name reported by the health endpoint alongside the overall "" status.
const UsersServiceName = "users.v1.Users"

// Health implements grpc.health.v1.Health backed by a database ping.
type Health struct {
	grpc_health_v1.UnimplementedHealthServer

	db     model.Pinger
	logger *logger.Logger
}

// NewHealth creates a new Health handler.
func NewHealth(db model.Pinger, logger *logger.Logger) *Health {
	return &Health{db: db, logger: logger}
}

// Check reports SERVING while the database answers pings.
func (h *Health) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	switch req.GetService() {
	case "", UsersServiceName:
	default:
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("database ping failed", "error", err)
		return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING}, nil
	}

	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}, nil
}
