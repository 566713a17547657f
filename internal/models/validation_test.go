package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUsage() UsageEvent {
	return UsageEvent{
		VehicleID:     "veh-1",
		UsageDate:     time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartOdometer: 1200,
		EndOdometer:   1260,
		FuelConsumed:  8,
	}
}

func TestUsageEvent_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(u *UsageEvent)
		field  string
	}{
		{"valid", func(u *UsageEvent) {}, ""},
		{"missing vehicle", func(u *UsageEvent) { u.VehicleID = "" }, "vehicle_id"},
		{"missing date", func(u *UsageEvent) { u.UsageDate = time.Time{} }, "usage_date"},
		{"end equals start", func(u *UsageEvent) { u.EndOdometer = u.StartOdometer }, "end_odometer"},
		{"end below start", func(u *UsageEvent) { u.EndOdometer = 1100 }, "end_odometer"},
		{"negative start", func(u *UsageEvent) { u.StartOdometer = -5 }, "odometer"},
		{"zero fuel", func(u *UsageEvent) { u.FuelConsumed = 0 }, "fuel_consumed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUsage()
			tt.mutate(&u)
			err := u.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestUsageEvent_Distance(t *testing.T) {
	u := validUsage()
	assert.Equal(t, 60.0, u.Distance())
}

func TestRefuelingEvent_Validate(t *testing.T) {
	base := RefuelingEvent{
		VehicleID:     "veh-1",
		RefuelingDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Odometer:      1000,
		FuelAmount:    40,
		FuelCost:      3800,
		StationName:   "HP Kharadi",
	}

	r := base
	require.NoError(t, r.Validate())
	assert.Equal(t, DefaultFuelType, r.FuelType)

	r = base
	r.FuelType = "Petrol"
	require.NoError(t, r.Validate())
	assert.Equal(t, "Petrol", r.FuelType)

	r = base
	r.StationName = ""
	assert.ErrorIs(t, r.Validate(), ErrValidation)

	r = base
	r.FuelAmount = 0
	assert.ErrorIs(t, r.Validate(), ErrValidation)

	r = base
	r.Odometer = -1
	assert.ErrorIs(t, r.Validate(), ErrValidation)

	r = base
	r.FuelCost = -10
	assert.ErrorIs(t, r.Validate(), ErrValidation)
}

func TestRefuelingEvent_CostPerLiter(t *testing.T) {
	r := RefuelingEvent{FuelAmount: 40, FuelCost: 4000}
	require.NotNil(t, r.CostPerLiter())
	assert.Equal(t, 100.0, *r.CostPerLiter())

	r.FuelAmount = 0
	assert.Nil(t, r.CostPerLiter())
}

func TestVehicle_Validate(t *testing.T) {
	v := Vehicle{Name: "Tipper 7"}
	require.NoError(t, v.Validate())
	assert.Equal(t, "active", v.Status)

	v = Vehicle{}
	assert.ErrorIs(t, v.Validate(), ErrValidation)

	v = Vehicle{Name: "JCB", Status: "scrapped"}
	assert.ErrorIs(t, v.Validate(), ErrValidation)
}
