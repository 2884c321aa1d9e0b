package router

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/users-server/internal/api/grpc/handler"
	"github.com/dtroode/users-server/internal/api/grpc/middleware"
	"github.com/dtroode/users-server/internal/logger"
	"github.com/dtroode/users-server/internal/model"
)

// Router builds the operational gRPC server.
type Router struct {
	db     model.Pinger
	logger *logger.Logger
}

// New creates new gRPC Router instance.
func New(db model.Pinger, logger *logger.Logger) *Router {
	return &Router{db: db, logger: logger}
}

// Register registers the health service and reflection behind logging and panic recovery.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recovery := middleware.NewRecovery(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryInterceptor(),
		),
	)

	grpc_health_v1.RegisterHealthServer(s, handler.NewHealth(r.db, r.logger))
	reflection.Register(s)

	return s
}
