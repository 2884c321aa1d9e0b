package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/users-server/internal/logger"
	"github.com/dtroode/users-server/internal/model"
)

const maxBodyBytes = 1 << 20

// UserService defines business operations for user management.
type UserService interface {
	CreateUser(ctx context.Context, input model.UserPatch) (model.User, error)
	ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (model.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

// User handles HTTP endpoints for users.
type User struct {
	userService UserService
	logger      *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, logger *logger.Logger) *User {
	return &User{
		userService: userService,
		logger:      logger,
	}
}

// Create handles POST /api/users.
func (h *User) Create(w http.ResponseWriter, r *http.Request) error {
	input, err := decodePatch(w, r)
	if err != nil {
		return err
	}

	user, err := h.userService.CreateUser(r.Context(), input)
	if err != nil {
		return err
	}

	writeSuccess(w, http.StatusCreated, "User created successfully", user)
	return nil
}

// List handles GET /api/users with optional name, email, minAge and maxAge filters.
func (h *User) List(w http.ResponseWriter, r *http.Request) error {
	filter, err := parseFilter(r)
	if err != nil {
		return err
	}

	users, err := h.userService.ListUsers(r.Context(), filter)
	if err != nil {
		return err
	}

	writeSuccess(w, http.StatusOK, "Users retrieved successfully", users)
	return nil
}

// Get handles GET /api/users/{id}.
func (h *User) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := parseID(r)
	if err != nil {
		return err
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		return err
	}

	writeSuccess(w, http.StatusOK, "User retrieved successfully", user)
	return nil
}

// Update handles PUT and PATCH /api/users/{id}.
func (h *User) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := parseID(r)
	if err != nil {
		return err
	}

	patch, err := decodePatch(w, r)
	if err != nil {
		return err
	}

	user, err := h.userService.UpdateUser(r.Context(), id, patch)
	if err != nil {
		return err
	}

	writeSuccess(w, http.StatusOK, "User updated successfully", user)
	return nil
}

// Delete handles DELETE /api/users/{id}.
func (h *User) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := parseID(r)
	if err != nil {
		return err
	}

	deleted, err := h.userService.DeleteUser(r.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		h.logger.Warn("delete affected no rows", "user_id", id)
	}

	writeSuccess(w, http.StatusOK, "User deleted successfully", nil)
	return nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewInvalidInput("Invalid user ID")
	}
	return id, nil
}

func parseFilter(r *http.Request) (model.UserFilter, error) {
	q := r.URL.Query()

	var filter model.UserFilter
	if name := q.Get("name"); name != "" {
		filter.Name = &name
	}
	if email := q.Get("email"); email != "" {
		filter.Email = &email
	}

	var err error
	if filter.MinAge, err = parseOptionalInt(q.Get("minAge")); err != nil {
		return model.UserFilter{}, model.NewInvalidInput("Invalid minAge")
	}
	if filter.MaxAge, err = parseOptionalInt(q.Get("maxAge")); err != nil {
		return model.UserFilter{}, model.NewInvalidInput("Invalid maxAge")
	}

	return filter, nil
}

func parseOptionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil, err
	}
	n := int(v)
	return &n, nil
}

// decodePatch reads a JSON body of optional name, email and age. An empty body is an empty patch.
func decodePatch(w http.ResponseWriter, r *http.Request) (model.UserPatch, error) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.UserPatch{}, model.NewInvalidInput("Request body too large")
		}
		return model.UserPatch{}, model.NewInvalidInput("Invalid JSON")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return model.UserPatch{}, nil
	}

	var patch model.UserPatch
	if !json.Valid(body) || json.Unmarshal(body, &patch) != nil {
		return model.UserPatch{}, model.NewInvalidInput("Invalid JSON")
	}
	return patch, nil
}
