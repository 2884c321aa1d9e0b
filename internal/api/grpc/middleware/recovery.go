package middleware

import (
	"context"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/users-server/internal/logger"
)

// Recovery turns handler panics into codes.Internal and logs them.
type Recovery struct {
	logger *logger.Logger
}

// NewRecovery creates a new Recovery middleware.
func NewRecovery(logger *logger.Logger) *Recovery {
	return &Recovery{logger: logger}
}

// UnaryInterceptor returns the recovery interceptor.
func (r *Recovery) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(r.handle))
}

func (r *Recovery) handle(_ context.Context, p any) error {
	r.logger.Error("recovered from panic", "panic", p, "stack", string(debug.Stack()))
	return status.Error(codes.Internal, "internal error")
}
