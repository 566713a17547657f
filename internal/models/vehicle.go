package models

import (
	"time"
)

// Vehicle represents a machine or truck assigned to a construction site.
type Vehicle struct {
	ID                 string    `bson:"_id,omitempty" json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name               string    `bson:"name" json:"name"`
	Type               string    `bson:"type" json:"type"` // "truck", "excavator", "loader", "mixer", ...
	RegistrationNumber string    `bson:"registration_number" json:"registration_number"`
	Site               string    `bson:"site" json:"site"`
	Status             string    `bson:"status" json:"status"` // "active" or "inactive"
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}

// Validate checks the minimal fields of a vehicle.
func (v *Vehicle) Validate() error {
	if v.Name == "" {
		return invalid("name", "name is required")
	}
	if v.Status == "" {
		v.Status = "active"
	}
	if v.Status != "active" && v.Status != "inactive" {
		return invalid("status", "status must be active or inactive")
	}
	return nil
}
