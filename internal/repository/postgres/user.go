package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/users-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const uniqueViolation = "23505"

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user model.NewUser) (model.User, error) {
	query := `INSERT INTO users (name, email, age)
			  VALUES ($1, $2, $3)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query, user.Name, user.Email, user.Age))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) ListActive(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	var conds conditions
	if filter.Name != nil {
		conds.add("name", "ILIKE", containsPattern(*filter.Name))
	}
	if filter.Email != nil {
		conds.add("email", "ILIKE", containsPattern(*filter.Email))
	}
	if filter.MinAge != nil {
		conds.add("age", ">=", *filter.MinAge)
	}
	if filter.MaxAge != nil {
		conds.add("age", "<=", *filter.MaxAge)
	}

	where, args := conds.where(0)
	query := `SELECT ` + userColumns + ` FROM users ` + where + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND ` + activePredicate

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	inUse, err := r.existsActive(ctx, "email", email, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return inUse, nil
}

func (r *UserRepository) NameInUse(ctx context.Context, name string, excludeID int64) (bool, error) {
	inUse, err := r.existsActive(ctx, "name", name, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check name: %w", err)
	}
	return inUse, nil
}

func (r *UserRepository) existsActive(ctx context.Context, column string, value string, excludeID int64) (bool, error) {
	var conds conditions
	conds.add(column, "=", value)
	if excludeID > 0 {
		conds.add("id", "!=", excludeID)
	}

	where, args := conds.where(0)
	query := `SELECT EXISTS (SELECT 1 FROM users ` + where + `)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, patch model.UserPatch) (model.User, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	var fields conditions
	if patch.Name != nil {
		fields.add("name", "=", *patch.Name)
	}
	if patch.Email != nil {
		fields.add("email", "=", *patch.Email)
	}
	if patch.Age != nil {
		fields.add("age", "=", *patch.Age)
	}

	set, args := fields.set(0)
	query := `UPDATE users SET ` + set + `, updated_at = NOW()
			  WHERE id = $` + fmt.Sprint(len(args)+1) + ` AND ` + activePredicate + `
			  RETURNING ` + userColumns
	args = append(args, id)

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND ` + activePredicate
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Age,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	return user, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
