package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/sitefleet/internal/auth"
	"github.com/ukydev/sitefleet/internal/db"
	"github.com/ukydev/sitefleet/internal/db/dbmock"
	"github.com/ukydev/sitefleet/internal/metrics"
	"github.com/ukydev/sitefleet/internal/middleware"
	"github.com/ukydev/sitefleet/internal/models"
)

type testEnv struct {
	handler  http.Handler
	auth     *auth.Service
	metrics  *metrics.Metrics
	vehicles *dbmock.VehicleCollection
}

func newTestEnv(limiter *middleware.RateLimitMiddleware) *testEnv {
	env := &testEnv{
		auth:     auth.NewService("server-test-secret", time.Hour),
		metrics:  metrics.New(),
		vehicles: new(dbmock.VehicleCollection),
	}
	env.handler = Handler(Deps{
		Store: &db.Store{
			Vehicles:   env.vehicles,
			Refuelings: new(dbmock.RefuelingCollection),
			Usages:     new(dbmock.UsageCollection),
			Users:      new(dbmock.UserCollection),
		},
		Auth:        env.auth,
		Metrics:     env.metrics,
		RateLimiter: limiter,
		Currency:    "INR",
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, role models.Role, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "10.0.0.7:5123"
	if role != "" {
		token, err := e.auth.GenerateToken(&models.User{ID: "u-" + string(role), Username: string(role), Role: role})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestHandler_PublicRoutes(t *testing.T) {
	env := newTestEnv(nil)

	w := env.do(t, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = env.do(t, "GET", "/api/units/convert?value=1&from=km&to=m&kind=distance", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"result":1000`)

	w = env.do(t, "GET", "/api/units/system?currency=USD", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Authorization(t *testing.T) {
	env := newTestEnv(nil)
	env.vehicles.On("FindVehicles", mock.Anything).Return([]models.Vehicle{{ID: "veh-1", Name: "Tipper"}}, nil)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, "GET", "/api/vehicles", "", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, "GET", "/api/vehicles", models.RoleViewer, "").Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, "POST", "/api/vehicles", models.RoleViewer, `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, "DELETE", "/api/refuelings/r1", models.RoleSupervisor, "").Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, "GET", "/api/users", models.RoleSiteManager, "").Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, "GET", "/api/vehicles/veh-1/reports/cost-analysis/export", models.RoleViewer, "").Code)
}

func TestHandler_RouteMetrics(t *testing.T) {
	env := newTestEnv(nil)
	env.vehicles.On("FindVehicleByID", mock.Anything, "veh-9").Return(nil, db.ErrNotFound)

	w := env.do(t, "GET", "/api/vehicles/veh-9", models.RoleViewer, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, "GET", "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `sitefleet_http_requests_total{route="GET /api/vehicles/{id}",status="404"} 1`)
}

func TestHandler_RateLimit(t *testing.T) {
	env := newTestEnv(middleware.NewRateLimitMiddleware(2, time.Minute))

	assert.Equal(t, http.StatusOK, env.do(t, "GET", "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, "GET", "/health", "", "").Code)
	w := env.do(t, "GET", "/health", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestHandler_UnknownRoute(t *testing.T) {
	env := newTestEnv(nil)
	assert.Equal(t, http.StatusNotFound, env.do(t, "GET", "/api/nothing", models.RoleAdmin, "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, env.do(t, "PATCH", "/api/vehicles", models.RoleAdmin, "").Code)
}

func TestNew(t *testing.T) {
	s := New("9090", Deps{Store: &db.Store{}, Auth: auth.NewService("x", time.Hour)})
	assert.Equal(t, ":9090", s.Addr())
}
