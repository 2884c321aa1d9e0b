package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/users-server/internal/mocks"
	"github.com/dtroode/users-server/internal/model"
	"github.com/dtroode/users-server/internal/testutil"
)

func TestRouter_Routes(t *testing.T) {
	user := model.User{ID: 7, Name: "Alice", Email: "a@x.com", Age: 30}

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		mockSetup  func(svc *mocks.UserService)
		wantStatus int
	}{
		{
			name:   "create",
			method: http.MethodPost, target: "/api/users", body: `{"name":"Alice","email":"a@x.com","age":30}`,
			mockSetup: func(svc *mocks.UserService) {
				svc.On("CreateUser", mock.Anything, mock.Anything).Return(user, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "list",
			method: http.MethodGet, target: "/api/users",
			mockSetup: func(svc *mocks.UserService) {
				svc.On("ListUsers", mock.Anything, model.UserFilter{}).Return([]model.User{user}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "get",
			method: http.MethodGet, target: "/api/users/7",
			mockSetup: func(svc *mocks.UserService) {
				svc.On("GetUser", mock.Anything, int64(7)).Return(user, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "put",
			method: http.MethodPut, target: "/api/users/7", body: `{"age":31}`,
			mockSetup: func(svc *mocks.UserService) {
				svc.On("UpdateUser", mock.Anything, int64(7), mock.Anything).Return(user, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "patch",
			method: http.MethodPatch, target: "/api/users/7", body: `{"age":31}`,
			mockSetup: func(svc *mocks.UserService) {
				svc.On("UpdateUser", mock.Anything, int64(7), mock.Anything).Return(user, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "delete",
			method: http.MethodDelete, target: "/api/users/7",
			mockSetup: func(svc *mocks.UserService) {
				svc.On("DeleteUser", mock.Anything, int64(7)).Return(true, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "unknown route",
			method: http.MethodGet, target: "/api/accounts",
			mockSetup:  func(svc *mocks.UserService) {},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "unsupported method",
			method: http.MethodDelete, target: "/api/users",
			mockSetup:  func(svc *mocks.UserService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewUserService(t)
			tt.mockSetup(svc)

			h := New(svc, mocks.NewPinger(t), time.Second, testutil.MakeNoopLogger()).Register()

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_Health(t *testing.T) {
	db := mocks.NewPinger(t)
	db.On("Ping", mock.Anything).Return(errors.New("down")).Once()

	h := New(mocks.NewUserService(t), db, 0, testutil.MakeNoopLogger()).Register()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"CRUD API is running!"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_RequestTimeout(t *testing.T) {
	svc := mocks.NewUserService(t)
	svc.On("GetUser", mock.Anything, int64(1)).Return(func(ctx context.Context, _ int64) (model.User, error) {
		<-ctx.Done()
		return model.User{}, ctx.Err()
	})

	h := New(svc, mocks.NewPinger(t), 20*time.Millisecond, testutil.MakeNoopLogger()).Register()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/1", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Request timed out"}`, rec.Body.String())
}

func TestRouter_RecoversFromPanic(t *testing.T) {
	svc := mocks.NewUserService(t)
	svc.On("GetUser", mock.Anything, int64(1)).Run(func(mock.Arguments) { panic("boom") })

	h := New(svc, mocks.NewPinger(t), 0, testutil.MakeNoopLogger()).Register()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
