package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/sitefleet/internal/auth"
	"github.com/ukydev/sitefleet/internal/models"
)

func tokenFor(t *testing.T, svc *auth.Service, role models.Role) string {
	t.Helper()
	token, err := svc.GenerateToken(&models.User{ID: "user-" + string(role), Username: string(role), Role: role})
	require.NoError(t, err)
	return token
}

// serve runs h and reports whether the inner handler was reached.
func serve(h func(http.Handler) http.Handler, req *http.Request) (*httptest.ResponseRecorder, bool) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	w := httptest.NewRecorder()
	h(inner).ServeHTTP(w, req)
	return w, called
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	authService := auth.NewService("test-secret", time.Hour)
	m := NewAuthMiddleware(authService)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/refuelings", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, authService, models.RoleSupervisor))
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
			claims, ok := GetUserFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, "supervisor", claims.Username)
			assert.Equal(t, models.RoleSupervisor, claims.Role)
		})

		m.Authenticate(handler).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		w, called := serve(m.Authenticate, httptest.NewRequest("GET", "/api/refuelings", nil))
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/usages", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w, called := serve(m.Authenticate, req)
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token without bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/usages", nil)
		req.Header.Set("Authorization", tokenFor(t, authService, models.RoleAdmin))
		w, called := serve(m.Authenticate, req)
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("public paths", func(t *testing.T) {
		for _, path := range []string{"/api/auth/login", "/health", "/metrics", "/api/units/convert"} {
			w, called := serve(m.Authenticate, httptest.NewRequest("GET", path, nil))
			assert.True(t, called, path)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("public prefix does not leak", func(t *testing.T) {
		w, called := serve(m.Authenticate, httptest.NewRequest("GET", "/api/auth/profile", nil))
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthMiddleware_RequirePermission(t *testing.T) {
	authService := auth.NewService("test-secret", time.Hour)
	m := NewAuthMiddleware(authService)

	tests := []struct {
		name   string
		role   models.Role
		action string
		want   int
	}{
		{"admin deletes users", models.RoleAdmin, models.ActionDeleteUser, http.StatusOK},
		{"site manager deletes logs", models.RoleSiteManager, models.ActionDeleteLogs, http.StatusOK},
		{"site manager cannot manage users", models.RoleSiteManager, models.ActionManageUsers, http.StatusForbidden},
		{"supervisor writes logs", models.RoleSupervisor, models.ActionWriteLogs, http.StatusOK},
		{"supervisor cannot export", models.RoleSupervisor, models.ActionExportReports, http.StatusForbidden},
		{"viewer reads reports", models.RoleViewer, models.ActionViewReports, http.StatusOK},
		{"viewer cannot write logs", models.RoleViewer, models.ActionWriteLogs, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/vehicles", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, authService, tt.role))

			chain := func(next http.Handler) http.Handler {
				return m.Authenticate(m.RequirePermission(tt.action)(next))
			}
			w, called := serve(chain, req)
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.want == http.StatusOK, called)
		})
	}

	t.Run("no claims in context", func(t *testing.T) {
		w, called := serve(m.RequirePermission(models.ActionViewLogs), httptest.NewRequest("GET", "/api/usages", nil))
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
