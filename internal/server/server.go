// Package server wires the HTTP routes and middleware of the fleet API.
package server

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/sitefleet/internal/auth"
	"github.com/ukydev/sitefleet/internal/db"
	"github.com/ukydev/sitefleet/internal/events"
	"github.com/ukydev/sitefleet/internal/handlers"
	"github.com/ukydev/sitefleet/internal/metrics"
	"github.com/ukydev/sitefleet/internal/middleware"
	"github.com/ukydev/sitefleet/internal/models"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Store       *db.Store
	Auth        *auth.Service
	Publisher   events.Publisher
	Metrics     *metrics.Metrics
	RateLimiter *middleware.RateLimitMiddleware
	Currency    string
}

type Server struct {
	httpServer *http.Server
}

func New(port string, deps Deps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      Handler(deps),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler returns the full middleware chain around the route table.
func Handler(deps Deps) http.Handler {
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	authMiddleware := middleware.NewAuthMiddleware(deps.Auth)
	var h http.Handler = authMiddleware.Authenticate(routes(deps, authMiddleware))
	if deps.RateLimiter != nil {
		h = deps.RateLimiter.RateLimit(h)
	}
	return middleware.Recover(middleware.RequestLogger(h))
}

func routes(deps Deps, am *middleware.AuthMiddleware) *http.ServeMux {
	store := deps.Store
	authHandler := handlers.NewAuthHandler(deps.Auth, store.Users)
	vehicleHandler := handlers.NewVehicleHandler(store.Vehicles, deps.Publisher)
	refuelingHandler := handlers.NewRefuelingHandler(store.Refuelings, store.Vehicles, deps.Publisher)
	usageHandler := handlers.NewUsageHandler(store.Usages, store.Vehicles, deps.Publisher)
	reportHandler := handlers.NewReportHandler(store.Vehicles, store.Refuelings, store.Usages, deps.Metrics)
	unitsHandler := handlers.NewUnitsHandler(deps.Metrics, deps.Currency)
	healthHandler := handlers.NewHealthHandler(store.Ping)

	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, deps.Metrics.Instrument(pattern, h))
	}
	open := func(pattern string, h http.HandlerFunc) {
		handle(pattern, h)
	}
	permit := func(pattern, action string, h http.HandlerFunc) {
		handle(pattern, am.Permit(action, h))
	}

	open("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", deps.Metrics.Handler())

	// Authentication
	open("POST /api/auth/login", authHandler.Login)
	open("POST /api/auth/register", authHandler.Register)
	open("GET /api/auth/profile", authHandler.GetProfile)
	open("PUT /api/auth/profile", authHandler.UpdateProfile)
	open("POST /api/auth/change-password", authHandler.ChangePassword)

	// User administration
	permit("GET /api/users", models.ActionManageUsers, authHandler.ListUsers)
	permit("PUT /api/users/{id}/role", models.ActionManageUsers, authHandler.UpdateUserRole)
	permit("DELETE /api/users/{id}", models.ActionDeleteUser, authHandler.DeleteUser)

	// Vehicles
	permit("GET /api/vehicles", models.ActionViewVehicles, vehicleHandler.List)
	permit("POST /api/vehicles", models.ActionManageVehicles, vehicleHandler.Create)
	permit("GET /api/vehicles/{id}", models.ActionViewVehicles, vehicleHandler.Get)
	permit("PUT /api/vehicles/{id}", models.ActionManageVehicles, vehicleHandler.Update)
	permit("DELETE /api/vehicles/{id}", models.ActionManageVehicles, vehicleHandler.Delete)

	// Logs
	permit("GET /api/refuelings", models.ActionViewLogs, refuelingHandler.List)
	permit("POST /api/refuelings", models.ActionWriteLogs, refuelingHandler.Create)
	permit("GET /api/refuelings/{id}", models.ActionViewLogs, refuelingHandler.Get)
	permit("PUT /api/refuelings/{id}", models.ActionWriteLogs, refuelingHandler.Update)
	permit("DELETE /api/refuelings/{id}", models.ActionDeleteLogs, refuelingHandler.Delete)
	permit("GET /api/usages", models.ActionViewLogs, usageHandler.List)
	permit("POST /api/usages", models.ActionWriteLogs, usageHandler.Create)
	permit("GET /api/usages/{id}", models.ActionViewLogs, usageHandler.Get)
	permit("PUT /api/usages/{id}", models.ActionWriteLogs, usageHandler.Update)
	permit("DELETE /api/usages/{id}", models.ActionDeleteLogs, usageHandler.Delete)

	// Reports
	permit("GET /api/vehicles/{id}/reports/{kind}", models.ActionViewReports, reportHandler.Get)
	permit("GET /api/vehicles/{id}/reports/{kind}/export", models.ActionExportReports, reportHandler.Export)

	// Units
	open("GET /api/units/convert", unitsHandler.Convert)
	open("GET /api/units/system", unitsHandler.System)
	open("GET /api/units/kinds", unitsHandler.Units)

	return mux
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start blocks until the server stops. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("server starting")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
