//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/users-server/internal/model"
	repo "github.com/dtroode/users-server/internal/repository/postgres"
	"github.com/dtroode/users-server/internal/service"
	"github.com/dtroode/users-server/internal/testutil"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "users_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/users_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newConnection(t *testing.T) *repo.Connection {
	t.Helper()

	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn, repo.ConnectionOptions{MaxConns: 4, Migrate: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(ctx, `TRUNCATE users RESTART IDENTITY`)
	require.NoError(t, err)

	return conn
}

func ptr[T any](v T) *T { return &v }

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	ur := repo.NewUserRepository(newConnection(t))

	saved, err := ur.Create(ctx, model.NewUser{Name: "Alice", Email: "a@x.com", Age: 30})
	require.NoError(t, err)
	assert.Positive(t, saved.ID)
	assert.Equal(t, "Alice", saved.Name)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Nil(t, saved.DeletedAt)

	got, err := ur.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Email, got.Email)

	inUse, err := ur.EmailInUse(ctx, "a@x.com", 0)
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = ur.EmailInUse(ctx, "a@x.com", saved.ID)
	require.NoError(t, err)
	assert.False(t, inUse)

	inUse, err = ur.NameInUse(ctx, "Alice", 0)
	require.NoError(t, err)
	assert.True(t, inUse)

	updated, err := ur.Update(ctx, saved.ID, model.UserPatch{Age: ptr(31)})
	require.NoError(t, err)
	assert.Equal(t, 31, updated.Age)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "a@x.com", updated.Email)

	unchanged, err := ur.Update(ctx, saved.ID, model.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)

	deleted, err := ur.SoftDelete(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = ur.SoftDelete(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = ur.GetByID(ctx, saved.ID)
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = ur.Update(ctx, saved.ID, model.UserPatch{Age: ptr(40)})
	require.ErrorIs(t, err, model.ErrNotFound)

	inUse, err = ur.EmailInUse(ctx, "a@x.com", 0)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestUserRepository_UniqueAmongActive(t *testing.T) {
	ctx := context.Background()
	ur := repo.NewUserRepository(newConnection(t))

	first, err := ur.Create(ctx, model.NewUser{Name: "Alice", Email: "a@x.com", Age: 30})
	require.NoError(t, err)

	_, err = ur.Create(ctx, model.NewUser{Name: "Alicia", Email: "a@x.com", Age: 30})
	require.ErrorIs(t, err, model.ErrConflict)

	_, err = ur.SoftDelete(ctx, first.ID)
	require.NoError(t, err)

	_, err = ur.Create(ctx, model.NewUser{Name: "Alice", Email: "a@x.com", Age: 30})
	require.NoError(t, err)
}

func TestUserRepository_ListActive(t *testing.T) {
	ctx := context.Background()
	ur := repo.NewUserRepository(newConnection(t))

	alice, err := ur.Create(ctx, model.NewUser{Name: "Alice", Email: "a@x.com", Age: 30})
	require.NoError(t, err)
	bob, err := ur.Create(ctx, model.NewUser{Name: "Bob", Email: "b@x.com", Age: 40})
	require.NoError(t, err)
	carol, err := ur.Create(ctx, model.NewUser{Name: "Carol", Email: "c@y.org", Age: 50})
	require.NoError(t, err)
	gone, err := ur.Create(ctx, model.NewUser{Name: "Dave", Email: "d@x.com", Age: 35})
	require.NoError(t, err)
	_, err = ur.SoftDelete(ctx, gone.ID)
	require.NoError(t, err)

	ids := func(users []model.User) []int64 {
		out := make([]int64, 0, len(users))
		for _, u := range users {
			out = append(out, u.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter model.UserFilter
		want   []int64
	}{
		{name: "no filters", filter: model.UserFilter{}, want: []int64{carol.ID, bob.ID, alice.ID}},
		{name: "min age", filter: model.UserFilter{MinAge: ptr(35)}, want: []int64{carol.ID, bob.ID}},
		{name: "age range", filter: model.UserFilter{MinAge: ptr(30), MaxAge: ptr(40)}, want: []int64{bob.ID, alice.ID}},
		{name: "name substring case insensitive", filter: model.UserFilter{Name: ptr("LIC")}, want: []int64{alice.ID}},
		{name: "email substring", filter: model.UserFilter{Email: ptr("x.com")}, want: []int64{bob.ID, alice.ID}},
		{name: "wildcards are literal", filter: model.UserFilter{Name: ptr("%")}, want: []int64{}},
		{name: "deleted never listed", filter: model.UserFilter{Name: ptr("Dave")}, want: []int64{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			users, err := ur.ListActive(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(users))
		})
	}
}

func TestUserService_Scenario(t *testing.T) {
	ctx := context.Background()
	svc := service.NewUser(repo.NewUserRepository(newConnection(t)), testutil.MakeNoopLogger())

	_, err := svc.CreateUser(ctx, model.UserPatch{Name: ptr("Alice"), Email: ptr("a@x.com"), Age: ptr(30)})
	require.NoError(t, err)
	bob, err := svc.CreateUser(ctx, model.UserPatch{Name: ptr("Bob"), Email: ptr("b@x.com"), Age: ptr(40)})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx, model.UserFilter{MinAge: ptr(35)})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bob.ID, users[0].ID)

	_, err = svc.UpdateUser(ctx, bob.ID, model.UserPatch{Email: ptr("a@x.com")})
	assert.Equal(t, model.KindConflict, model.KindOf(err))

	same, err := svc.UpdateUser(ctx, bob.ID, model.UserPatch{Email: ptr("b@x.com")})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", same.Email)

	ok, err := svc.DeleteUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.GetUser(ctx, bob.ID)
	assert.Equal(t, model.KindNotFound, model.KindOf(err))

	_, err = svc.DeleteUser(ctx, bob.ID)
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
}
