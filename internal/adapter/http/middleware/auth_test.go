package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
)

func TestRequireLevel(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		required types.UserRole
		want     int
	}{
		{"anonymous rejected", models.AnonymousUser(), types.RoleUser, http.StatusUnauthorized},
		{"user below operator", &models.User{ID: uuid.New(), Role: types.RoleUser}, types.RoleOperator, http.StatusForbidden},
		{"operator at operator", &models.User{ID: uuid.New(), Role: types.RoleOperator}, types.RoleOperator, http.StatusOK},
		{"admin passes operator check", &models.User{ID: uuid.New(), Role: types.RoleAdmin}, types.RoleOperator, http.StatusOK},
		{"operator below admin", &models.User{ID: uuid.New(), Role: types.RoleOperator}, types.RoleAdmin, http.StatusForbidden},
	}

	m := NewMiddleware(nil, logger.InitLogger("test", logger.LevelError))
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(models.WithUser(req.Context(), tt.user))
			rec := httptest.NewRecorder()

			m.RequireLevel(next, tt.required).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, err := extractBearerToken("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Errorf("expected token abc.def.ghi, got %s", token)
	}

	for _, header := range []string{"abc", "Basic abc", "Bearer "} {
		if _, err := extractBearerToken(header); err == nil {
			t.Errorf("expected error for header %q", header)
		}
	}
}
