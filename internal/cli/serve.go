package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	grpcrouter "github.com/dtroode/users-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/users-server/internal/api/grpc/server"
	httprouter "github.com/dtroode/users-server/internal/api/http/router"
	httpserver "github.com/dtroode/users-server/internal/api/http/server"
	"github.com/dtroode/users-server/internal/config"
	"github.com/dtroode/users-server/internal/logger"
	"github.com/dtroode/users-server/internal/model"
	"github.com/dtroode/users-server/internal/repository/postgres"
	"github.com/dtroode/users-server/internal/server"
	"github.com/dtroode/users-server/internal/service"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cmd.OutOrStdout(), cfg.LogLevel, cfg.JSONLogs())
			return runServe(cmd.Context(), cfg, log)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, postgres.ConnectionOptions{
		MaxConns: cfg.Database.MaxConns,
		Migrate:  cfg.Database.Migrate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	userService := service.NewUser(userRepo, log)

	handler := httprouter.New(userService, db, cfg.HTTP.RequestTimeout, log).Register()
	servers := []model.Server{
		httpserver.NewHTTPServer(handler, fmt.Sprintf(":%s", cfg.HTTP.Port)),
		grpcserver.NewGRPCServer(grpcrouter.New(db, log).Register(), fmt.Sprintf(":%s", cfg.GRPC.Port)),
	}
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		runErr  error
	)
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			log.Info("starting server", "address", s.Address())
			if err := s.Start(sl); err != nil {
				log.Error("server stopped with error", "address", s.Address(), "error", err)
				errOnce.Do(func() { runErr = err })
				cancel()
			}
		}(s)
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			log.Error("error during server shutdown", "address", s.Address(), "error", err)
		}
	}

	wg.Wait()
	log.Info("shutdown complete")
	return runErr
}
