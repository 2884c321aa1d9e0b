package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/users-server/internal/logger"
	"github.com/dtroode/users-server/internal/model"
)

func TestWrap_Logging(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		want       []string
		notWant    []string
	}{
		{
			name:       "client error logged with kind",
			err:        model.NewConflict("Email already exists"),
			wantStatus: http.StatusConflict,
			want:       []string{"level=DEBUG", `msg="request rejected"`, "kind=conflict"},
			notWant:    []string{"level=ERROR"},
		},
		{
			name:       "internal error logged with details",
			err:        errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusInternalServerError,
			want:       []string{"level=ERROR", "connection refused", "status=500"},
		},
		{
			name:       "deadline reported as timeout",
			err:        fmt.Errorf("failed to list users: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			want:       []string{"level=ERROR", "status=504"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			lg := logger.NewWithWriter(&buf, -4, false)

			h := Wrap(lg, func(w http.ResponseWriter, r *http.Request) error { return tt.err })
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}
