// Package dbmock provides testify mocks of the db collection interfaces.
package dbmock

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/sitefleet/internal/db"
	"github.com/ukydev/sitefleet/internal/models"
)

var (
	_ db.VehicleCollection   = (*VehicleCollection)(nil)
	_ db.RefuelingCollection = (*RefuelingCollection)(nil)
	_ db.UsageCollection     = (*UsageCollection)(nil)
	_ db.UserCollection      = (*UserCollection)(nil)
)

// UserCollection is a mock implementation of db.UserCollection
type UserCollection struct {
	mock.Mock
}

func (m *UserCollection) InsertUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) FindUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *UserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	return m.Called(ctx, id, user).Error(0)
}

func (m *UserCollection) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// VehicleCollection is a mock implementation of db.VehicleCollection
type VehicleCollection struct {
	mock.Mock
}

func (m *VehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (models.Vehicle, error) {
	args := m.Called(ctx, vehicle)
	return args.Get(0).(models.Vehicle), args.Error(1)
}

func (m *VehicleCollection) FindVehicles(ctx context.Context) ([]models.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *VehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *VehicleCollection) UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error {
	return m.Called(ctx, id, vehicle).Error(0)
}

func (m *VehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// RefuelingCollection is a mock implementation of db.RefuelingCollection
type RefuelingCollection struct {
	mock.Mock
}

func (m *RefuelingCollection) InsertRefueling(ctx context.Context, event models.RefuelingEvent) (models.RefuelingEvent, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(models.RefuelingEvent), args.Error(1)
}

func (m *RefuelingCollection) FindRefuelings(ctx context.Context, filter db.EventFilter) ([]models.RefuelingEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RefuelingEvent), args.Error(1)
}

func (m *RefuelingCollection) FindRefuelingByID(ctx context.Context, id string) (*models.RefuelingEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefuelingEvent), args.Error(1)
}

func (m *RefuelingCollection) UpdateRefueling(ctx context.Context, id string, event models.RefuelingEvent) error {
	return m.Called(ctx, id, event).Error(0)
}

func (m *RefuelingCollection) DeleteRefueling(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// UsageCollection is a mock implementation of db.UsageCollection
type UsageCollection struct {
	mock.Mock
}

func (m *UsageCollection) InsertUsage(ctx context.Context, event models.UsageEvent) (models.UsageEvent, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(models.UsageEvent), args.Error(1)
}

func (m *UsageCollection) FindUsages(ctx context.Context, filter db.EventFilter) ([]models.UsageEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UsageEvent), args.Error(1)
}

func (m *UsageCollection) FindUsageByID(ctx context.Context, id string) (*models.UsageEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UsageEvent), args.Error(1)
}

func (m *UsageCollection) UpdateUsage(ctx context.Context, id string, event models.UsageEvent) error {
	return m.Called(ctx, id, event).Error(0)
}

func (m *UsageCollection) DeleteUsage(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
