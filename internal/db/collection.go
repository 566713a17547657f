package db

import (
	"context"
	"errors"
	"time"

	"github.com/ukydev/sitefleet/internal/models"
)

// ErrNotFound is returned by every backend when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// EventFilter narrows event listings. An empty VehicleID lists every vehicle.
// The window only applies when both bounds are set.
type EventFilter struct {
	VehicleID string
	Window    models.Window
}

// dayRange converts the window to a half-open [from, until) instant range
// covering whole calendar days.
func (f EventFilter) dayRange() (from, until time.Time, ok bool) {
	if !f.Window.Bounded() {
		return time.Time{}, time.Time{}, false
	}
	return models.Day(*f.Window.Start), models.Day(*f.Window.End).AddDate(0, 0, 1), true
}

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (models.Vehicle, error)
	FindVehicles(ctx context.Context) ([]models.Vehicle, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}

// RefuelingCollection defines the interface for refueling log operations.
// Listings are ordered by refueling date.
type RefuelingCollection interface {
	InsertRefueling(ctx context.Context, event models.RefuelingEvent) (models.RefuelingEvent, error)
	FindRefuelings(ctx context.Context, filter EventFilter) ([]models.RefuelingEvent, error)
	FindRefuelingByID(ctx context.Context, id string) (*models.RefuelingEvent, error)
	UpdateRefueling(ctx context.Context, id string, event models.RefuelingEvent) error
	DeleteRefueling(ctx context.Context, id string) error
}

// UsageCollection defines the interface for usage log operations.
// Listings are ordered by usage date.
type UsageCollection interface {
	InsertUsage(ctx context.Context, event models.UsageEvent) (models.UsageEvent, error)
	FindUsages(ctx context.Context, filter EventFilter) ([]models.UsageEvent, error)
	FindUsageByID(ctx context.Context, id string) (*models.UsageEvent, error)
	UpdateUsage(ctx context.Context, id string, event models.UsageEvent) error
	DeleteUsage(ctx context.Context, id string) error
}

// UserCollection defines the interface for user database operations
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	DeleteUser(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
}
