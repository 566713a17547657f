package models

import (
	"encoding/json"
	"time"
)

// UsageEvent represents one logged trip of a site vehicle.
type UsageEvent struct {
	ID            string    `json:"id" bson:"_id,omitempty" gorm:"primaryKey;type:varchar(36)"`
	VehicleID     string    `json:"vehicle_id" bson:"vehicle_id" gorm:"index;not null"`
	UsageDate     time.Time `json:"usage_date" bson:"usage_date" gorm:"index;not null"`
	StartOdometer float64   `json:"start_odometer" bson:"start_odometer"` // in kilometers
	EndOdometer   float64   `json:"end_odometer" bson:"end_odometer"`     // in kilometers
	StartLocation string    `json:"start_location" bson:"start_location"`
	EndLocation   string    `json:"end_location" bson:"end_location"`
	Purpose       string    `json:"purpose" bson:"purpose"`
	DriverName    string    `json:"driver_name" bson:"driver_name"`
	FuelConsumed  float64   `json:"fuel_consumed" bson:"fuel_consumed"` // in liters
	Notes         string    `json:"notes" bson:"notes"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// UnmarshalJSON accepts usage_date as YYYY-MM-DD or RFC 3339.
func (u *UsageEvent) UnmarshalJSON(data []byte) error {
	type plain UsageEvent
	aux := struct {
		*plain
		UsageDate eventDate `json:"usage_date"`
	}{plain: (*plain)(u), UsageDate: eventDate(u.UsageDate)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.UsageDate = time.Time(aux.UsageDate)
	return nil
}

// Distance is the odometer difference covered by the trip.
func (u UsageEvent) Distance() float64 {
	return u.EndOdometer - u.StartOdometer
}

// Validate enforces the usage invariants: a vehicle reference, non-negative
// odometers, an end reading strictly above the start, and positive fuel.
func (u *UsageEvent) Validate() error {
	if u.VehicleID == "" {
		return invalid("vehicle_id", "vehicle_id is required")
	}
	if u.UsageDate.IsZero() {
		return invalid("usage_date", "usage_date is required")
	}
	u.UsageDate = Day(u.UsageDate)
	if u.StartOdometer < 0 || u.EndOdometer < 0 {
		return invalid("odometer", "odometer readings must not be negative")
	}
	if u.EndOdometer <= u.StartOdometer {
		return invalid("end_odometer", "end_odometer must be greater than start_odometer")
	}
	if u.FuelConsumed <= 0 {
		return invalid("fuel_consumed", "fuel_consumed must be greater than zero")
	}
	return nil
}
