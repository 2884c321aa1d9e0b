package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/users-server/internal/logger"
	"github.com/dtroode/users-server/internal/model"
)

const (
	msgInvalidID     = "Invalid user ID"
	msgNotFound      = "User not found"
	msgRequired      = "Name, email, and age are required"
	msgEmptyName     = "Name must not be empty"
	msgEmptyEmail    = "Email must not be empty"
	msgEmailExists   = "Email already exists"
	msgNameExists    = "Name already exists"
	msgInvalidEmail  = "Invalid email format"
	msgAgeOutOfRange = "Age must be between 0 and 150"
	msgAlreadyInUse  = "Name or email already exists"
)

// User implements user management on top of a UserStore.
type User struct {
	userStore model.UserStore
	rules     fieldRules
	logger    *logger.Logger
}

func NewUser(userStore model.UserStore, logger *logger.Logger) *User {
	return &User{
		userStore: userStore,
		rules:     fieldRules{validate: newValidator()},
		logger:    logger,
	}
}

func (s *User) CreateUser(ctx context.Context, input model.UserPatch) (model.User, error) {
	if err := s.validate(ctx, input, 0); err != nil {
		return model.User{}, err
	}

	user, err := s.userStore.Create(ctx, model.NewUser{
		Name:  *input.Name,
		Email: *input.Email,
		Age:   *input.Age,
	})
	if errors.Is(err, model.ErrConflict) {
		return model.User{}, model.NewConflict(msgAlreadyInUse)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID)

	return user, nil
}

func (s *User) ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	users, err := s.userStore.ListActive(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (s *User) GetUser(ctx context.Context, id int64) (model.User, error) {
	if id <= 0 {
		return model.User{}, model.NewInvalidInput(msgInvalidID)
	}

	return s.getActive(ctx, id)
}

func (s *User) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (model.User, error) {
	if id <= 0 {
		return model.User{}, model.NewInvalidInput(msgInvalidID)
	}

	if err := s.validate(ctx, patch, id); err != nil {
		return model.User{}, err
	}

	user, err := s.userStore.Update(ctx, id, patch)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.NewNotFound(msgNotFound)
	}
	if errors.Is(err, model.ErrConflict) {
		return model.User{}, model.NewConflict(msgAlreadyInUse)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated", "user_id", id)

	return user, nil
}

func (s *User) DeleteUser(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, model.NewInvalidInput(msgInvalidID)
	}

	if _, err := s.getActive(ctx, id); err != nil {
		return false, err
	}

	deleted, err := s.userStore.SoftDelete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", id, "affected", deleted)

	return deleted, nil
}

func (s *User) getActive(ctx context.Context, id int64) (model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.NewNotFound(msgNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// validate runs the checks for create (excludeID == 0) and update in a fixed order:
// existence, required fields, email uniqueness then format, name uniqueness, age range.
// The first failing check is returned.
func (s *User) validate(ctx context.Context, input model.UserPatch, excludeID int64) error {
	creating := excludeID == 0

	if !creating {
		if _, err := s.getActive(ctx, excludeID); err != nil {
			return err
		}
	}

	if err := s.checkRequired(input, creating); err != nil {
		return err
	}

	if input.Email != nil {
		inUse, err := s.userStore.EmailInUse(ctx, *input.Email, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if inUse {
			return model.NewConflict(msgEmailExists)
		}
		if !s.rules.emailFormat(*input.Email) {
			return model.NewInvalidInput(msgInvalidEmail)
		}
	}

	if input.Name != nil {
		inUse, err := s.userStore.NameInUse(ctx, *input.Name, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check name: %w", err)
		}
		if inUse {
			return model.NewConflict(msgNameExists)
		}
	}

	if input.Age != nil && !s.rules.ageInRange(*input.Age) {
		return model.NewInvalidInput(msgAgeOutOfRange)
	}

	return nil
}

// checkRequired demands all three fields on create. On update only supplied
// fields are checked, and a supplied name or email must not be empty.
func (s *User) checkRequired(input model.UserPatch, creating bool) error {
	if creating {
		if input.Name == nil || input.Email == nil || input.Age == nil ||
			!s.rules.nonEmpty(*input.Name) || !s.rules.nonEmpty(*input.Email) {
			return model.NewInvalidInput(msgRequired)
		}
		return nil
	}

	if input.Name != nil && !s.rules.nonEmpty(*input.Name) {
		return model.NewInvalidInput(msgEmptyName)
	}
	if input.Email != nil && !s.rules.nonEmpty(*input.Email) {
		return model.NewInvalidInput(msgEmptyEmail)
	}

	return nil
}
