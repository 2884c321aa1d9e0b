package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user NewUser) (User, error)
	ListActive(ctx context.Context, filter UserFilter) ([]User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error)
	NameInUse(ctx context.Context, name string, excludeID int64) (bool, error)
	Update(ctx context.Context, id int64, patch UserPatch) (User, error)
	SoftDelete(ctx context.Context, id int64) (bool, error)
}

// User represents a stored user record.
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       int        `json:"age"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// NewUser contains the fields written on insert.
type NewUser struct {
	Name  string
	Email string
	Age   int
}

// UserPatch carries optionally supplied user fields. A nil field is absent.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Age   *int    `json:"age"`
}

// Empty reports whether no field is supplied.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil
}

// UserFilter narrows a list of active users. Absent fields impose no constraint.
type UserFilter struct {
	Name   *string
	Email  *string
	MinAge *int
	MaxAge *int
}
