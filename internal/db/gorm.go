package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ukydev/sitefleet/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectPostgres opens a GORM connection and migrates the fleet tables.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(&models.Vehicle{}, &models.RefuelingEvent{}, &models.UsageEvent{}, &models.User{}); err != nil {
		return nil, err
	}
	return gdb, nil
}

// GormStore implements every collection interface on a relational database.
type GormStore struct {
	DB *gorm.DB
}

func gormNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) first(ctx context.Context, out interface{}, query string, arg interface{}) error {
	return gormNotFound(s.DB.WithContext(ctx).Where(query, arg).First(out).Error)
}

// replace overwrites every column except the primary key and creation time.
func (s *GormStore) replace(ctx context.Context, model interface{}, id string, values interface{}) error {
	result := s.DB.WithContext(ctx).Model(model).Where("id = ?", id).
		Select("*").Omit("id", "created_at").Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) delete(ctx context.Context, model interface{}, id string) error {
	result := s.DB.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) events(ctx context.Context, dateColumn string, f EventFilter) *gorm.DB {
	q := s.DB.WithContext(ctx)
	if f.VehicleID != "" {
		q = q.Where("vehicle_id = ?", f.VehicleID)
	}
	if from, until, ok := f.dayRange(); ok {
		q = q.Where(dateColumn+" >= ? AND "+dateColumn+" < ?", from, until)
	}
	return q.Order(dateColumn + " ASC")
}

// InsertVehicle stores a new vehicle.
func (s *GormStore) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (models.Vehicle, error) {
	if vehicle.ID == "" {
		vehicle.ID = uuid.NewString()
	}
	vehicle.CreatedAt = time.Now().UTC()
	err := s.DB.WithContext(ctx).Create(&vehicle).Error
	return vehicle, err
}

// FindVehicles lists every vehicle ordered by name.
func (s *GormStore) FindVehicles(ctx context.Context) ([]models.Vehicle, error) {
	vehicles := []models.Vehicle{}
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (s *GormStore) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.first(ctx, &vehicle, "id = ?", id); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *GormStore) UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error {
	vehicle.ID = id
	return s.replace(ctx, &models.Vehicle{}, id, &vehicle)
}

func (s *GormStore) DeleteVehicle(ctx context.Context, id string) error {
	return s.delete(ctx, &models.Vehicle{}, id)
}

// InsertRefueling stores a new refueling event.
func (s *GormStore) InsertRefueling(ctx context.Context, event models.RefuelingEvent) (models.RefuelingEvent, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	err := s.DB.WithContext(ctx).Create(&event).Error
	return event, err
}

func (s *GormStore) FindRefuelings(ctx context.Context, filter EventFilter) ([]models.RefuelingEvent, error) {
	events := []models.RefuelingEvent{}
	if err := s.events(ctx, "refueling_date", filter).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *GormStore) FindRefuelingByID(ctx context.Context, id string) (*models.RefuelingEvent, error) {
	var event models.RefuelingEvent
	if err := s.first(ctx, &event, "id = ?", id); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *GormStore) UpdateRefueling(ctx context.Context, id string, event models.RefuelingEvent) error {
	event.ID = id
	event.UpdatedAt = time.Now().UTC()
	return s.replace(ctx, &models.RefuelingEvent{}, id, &event)
}

func (s *GormStore) DeleteRefueling(ctx context.Context, id string) error {
	return s.delete(ctx, &models.RefuelingEvent{}, id)
}

// InsertUsage stores a new usage event.
func (s *GormStore) InsertUsage(ctx context.Context, event models.UsageEvent) (models.UsageEvent, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	err := s.DB.WithContext(ctx).Create(&event).Error
	return event, err
}

func (s *GormStore) FindUsages(ctx context.Context, filter EventFilter) ([]models.UsageEvent, error) {
	events := []models.UsageEvent{}
	if err := s.events(ctx, "usage_date", filter).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *GormStore) FindUsageByID(ctx context.Context, id string) (*models.UsageEvent, error) {
	var event models.UsageEvent
	if err := s.first(ctx, &event, "id = ?", id); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *GormStore) UpdateUsage(ctx context.Context, id string, event models.UsageEvent) error {
	event.ID = id
	event.UpdatedAt = time.Now().UTC()
	return s.replace(ctx, &models.UsageEvent{}, id, &event)
}

func (s *GormStore) DeleteUsage(ctx context.Context, id string) error {
	return s.delete(ctx, &models.UsageEvent{}, id)
}

// InsertUser stores a new, active user.
func (s *GormStore) InsertUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true
	err := s.DB.WithContext(ctx).Create(&user).Error
	return user, err
}

func (s *GormStore) findUser(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	if err := s.first(ctx, &user, column+" = ?", value); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "id", id)
}

func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, "username", username)
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email", email)
}

func (s *GormStore) FindUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.DB.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, id string, user models.User) error {
	user.ID = id
	user.UpdatedAt = time.Now().UTC()
	return s.replace(ctx, &models.User{}, id, &user)
}

func (s *GormStore) DeleteUser(ctx context.Context, id string) error {
	return s.delete(ctx, &models.User{}, id)
}

func (s *GormStore) UpdateLastLogin(ctx context.Context, id string) error {
	now := time.Now().UTC()
	result := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"last_login": now, "updated_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
