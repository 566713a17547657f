package models

import (
	"encoding/json"
	"time"
)

// DefaultFuelType is applied to refueling events submitted without a fuel type.
const DefaultFuelType = "Diesel"

// RefuelingEvent represents a single fill-up of a site vehicle.
type RefuelingEvent struct {
	ID            string    `json:"id" bson:"_id,omitempty" gorm:"primaryKey;type:varchar(36)"`
	VehicleID     string    `json:"vehicle_id" bson:"vehicle_id" gorm:"index;not null"`
	RefuelingDate time.Time `json:"refueling_date" bson:"refueling_date" gorm:"index;not null"`
	Odometer      float64   `json:"odometer" bson:"odometer"`       // in kilometers
	FuelAmount    float64   `json:"fuel_amount" bson:"fuel_amount"` // in liters
	FuelCost      float64   `json:"fuel_cost" bson:"fuel_cost"`     // in INR
	FuelType      string    `json:"fuel_type" bson:"fuel_type" gorm:"default:Diesel"`
	StationName   string    `json:"station_name" bson:"station_name" gorm:"not null"`
	Notes         string    `json:"notes" bson:"notes"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// UnmarshalJSON accepts refueling_date as YYYY-MM-DD or RFC 3339.
func (r *RefuelingEvent) UnmarshalJSON(data []byte) error {
	type plain RefuelingEvent
	aux := struct {
		*plain
		RefuelingDate eventDate `json:"refueling_date"`
	}{plain: (*plain)(r), RefuelingDate: eventDate(r.RefuelingDate)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.RefuelingDate = time.Time(aux.RefuelingDate)
	return nil
}

// CostPerLiter returns FuelCost / FuelAmount, or nil when the amount is zero.
func (r RefuelingEvent) CostPerLiter() *float64 {
	if r.FuelAmount == 0 {
		return nil
	}
	v := r.FuelCost / r.FuelAmount
	return &v
}

// Validate checks the fields a refueling event must carry before it is stored.
func (r *RefuelingEvent) Validate() error {
	if r.VehicleID == "" {
		return invalid("vehicle_id", "vehicle_id is required")
	}
	if r.RefuelingDate.IsZero() {
		return invalid("refueling_date", "refueling_date is required")
	}
	r.RefuelingDate = Day(r.RefuelingDate)
	if r.Odometer < 0 {
		return invalid("odometer", "odometer must not be negative")
	}
	if r.FuelAmount <= 0 {
		return invalid("fuel_amount", "fuel_amount must be greater than zero")
	}
	if r.FuelCost < 0 {
		return invalid("fuel_cost", "fuel_cost must not be negative")
	}
	if r.StationName == "" {
		return invalid("station_name", "station_name is required")
	}
	if r.FuelType == "" {
		r.FuelType = DefaultFuelType
	}
	return nil
}
