package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Storage drivers accepted by Open.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Options selects and configures the storage backend.
type Options struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	PostgresDSN   string
}

// Store bundles the collections of one backend.
type Store struct {
	Vehicles   VehicleCollection
	Refuelings RefuelingCollection
	Usages     UsageCollection
	Users      UserCollection

	close func(ctx context.Context) error
	ping  func(ctx context.Context) error
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the configured backend.
func Open(ctx context.Context, opts Options) (*Store, error) {
	switch opts.Driver {
	case DriverMongo, "":
		client, err := ConnectMongo(ctx, opts.MongoURI)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(client, opts.MongoDatabase), nil
	case DriverPostgres:
		gdb, err := ConnectPostgres(opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		store := NewGormStore(gdb)
		store.close = func(context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}

// NewMongoStore maps each record type to its own collection of database.
func NewMongoStore(client *mongo.Client, database string) *Store {
	if database == "" {
		database = "sitefleet"
	}
	mdb := client.Database(database)
	return &Store{
		Vehicles:   &MongoCollection{Collection: mdb.Collection("vehicles")},
		Refuelings: &MongoCollection{Collection: mdb.Collection("refuelings")},
		Usages:     &MongoCollection{Collection: mdb.Collection("usages")},
		Users:      &MongoUserCollection{Collection: mdb.Collection("users")},
		close:      client.Disconnect,
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	}
}

// NewGormStore serves every collection from one GORM handle.
func NewGormStore(gdb *gorm.DB) *Store {
	s := &GormStore{DB: gdb}
	return &Store{
		Vehicles:   s,
		Refuelings: s,
		Usages:     s,
		Users:      s,
		ping: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}
