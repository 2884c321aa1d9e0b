package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/users-server/internal/api/http/handler"
	"github.com/dtroode/users-server/internal/api/http/middleware"
	"github.com/dtroode/users-server/internal/logger"
	"github.com/dtroode/users-server/internal/model"
)

// Router builds the HTTP routing tree for the users API.
type Router struct {
	userService    handler.UserService
	db             model.Pinger
	requestTimeout time.Duration
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(userService handler.UserService, db model.Pinger, requestTimeout time.Duration, logger *logger.Logger) *Router {
	return &Router{
		userService:    userService,
		db:             db,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// Register mounts middleware and all routes.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(logging.Handle)
	mux.Use(chimw.Recoverer)
	if r.requestTimeout > 0 {
		mux.Use(middleware.Deadline(r.requestTimeout))
	}

	health := handler.NewHealth(r.db, r.logger)
	mux.Get("/", health.Root)
	mux.Get("/healthz", health.Ready)

	r.registerUserRoutes(mux)

	return mux
}

func (r *Router) registerUserRoutes(mux chi.Router) {
	users := handler.NewUser(r.userService, r.logger)

	mux.Route("/api/users", func(sub chi.Router) {
		sub.Post("/", handler.Wrap(r.logger, users.Create))
		sub.Get("/", handler.Wrap(r.logger, users.List))
		sub.Get("/{id}", handler.Wrap(r.logger, users.Get))
		sub.Put("/{id}", handler.Wrap(r.logger, users.Update))
		sub.Patch("/{id}", handler.Wrap(r.logger, users.Update))
		sub.Delete("/{id}", handler.Wrap(r.logger, users.Delete))
	})
}
