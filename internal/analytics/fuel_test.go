package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/sitefleet/internal/models"
)

func TestFuelConsumption_SingleEvent(t *testing.T) {
	report := FuelConsumption(vehicleID, models.Window{}, []models.RefuelingEvent{
		refuel("r1", day(2024, 1, 5), 1000, 40, 3800),
	}, nil)

	require.Len(t, report.Records, 1)
	rec := report.Records[0]
	assert.Nil(t, rec.PreviousDate)
	assert.Nil(t, rec.PreviousOdometer)
	assert.Nil(t, rec.PreviousFuelAmount)
	assert.Nil(t, rec.MileageBetween)
	assert.Nil(t, rec.FuelEfficiency)
	require.NotNil(t, rec.CostPerLiter)
	assert.Equal(t, 95.0, *rec.CostPerLiter)

	s := report.Summary
	assert.Equal(t, 1, s.TotalRefuels)
	assert.Nil(t, s.AvgFuelEfficiency)
	require.NotNil(t, s.TotalMileage)
	assert.Equal(t, 0.0, *s.TotalMileage)
	assert.Equal(t, day(2024, 1, 5), *s.FirstRefuel)
	assert.Equal(t, day(2024, 1, 5), *s.LastRefuel)
}

func TestFuelConsumption_TwoEvents(t *testing.T) {
	// Supplied out of order on purpose.
	report := FuelConsumption(vehicleID, models.Window{}, []models.RefuelingEvent{
		refuel("r2", day(2024, 1, 20), 1500, 50, 5000),
		refuel("r1", day(2024, 1, 5), 1000, 40, 3600),
	}, nil)

	require.Len(t, report.Records, 2)
	assert.Equal(t, "r1", report.Records[0].ID)

	second := report.Records[1]
	require.NotNil(t, second.MileageBetween)
	assert.Equal(t, 500.0, *second.MileageBetween)
	require.NotNil(t, second.FuelEfficiency)
	assert.Equal(t, 12.5, *second.FuelEfficiency)
	assert.Equal(t, 1000.0, *second.PreviousOdometer)
	assert.Equal(t, 40.0, *second.PreviousFuelAmount)
	assert.Equal(t, day(2024, 1, 5), *second.PreviousDate)

	s := report.Summary
	assert.Equal(t, 2, s.TotalRefuels)
	assert.Equal(t, 90.0, s.TotalFuel)
	assert.Equal(t, 8600.0, s.TotalCost)
	// mean of 90 and 100, not 8600/90
	require.NotNil(t, s.AvgCostPerLiter)
	assert.Equal(t, 95.0, *s.AvgCostPerLiter)
	assert.Equal(t, 500.0, *s.TotalMileage)
	require.NotNil(t, s.AvgFuelEfficiency)
	assert.InDelta(t, 500.0/90.0, *s.AvgFuelEfficiency, 1e-12)
}

func TestFuelConsumption_ZeroPreviousAmount(t *testing.T) {
	report := FuelConsumption(vehicleID, models.Window{}, []models.RefuelingEvent{
		refuel("r1", day(2024, 1, 5), 1000, 0, 0),
		refuel("r2", day(2024, 1, 9), 1300, 30, 2850),
	}, nil)

	second := report.Records[1]
	require.NotNil(t, second.MileageBetween)
	assert.Equal(t, 300.0, *second.MileageBetween)
	assert.Nil(t, second.FuelEfficiency)
	assert.Nil(t, report.Records[0].CostPerLiter)

	// the zero-amount event is skipped by the mean
	require.NotNil(t, report.Summary.AvgCostPerLiter)
	assert.Equal(t, 95.0, *report.Summary.AvgCostPerLiter)
}

func TestFuelConsumption_Window(t *testing.T) {
	refuels := []models.RefuelingEvent{
		refuel("r1", day(2024, 1, 5), 1000, 40, 3800),
		refuel("r2", day(2024, 2, 5), 1400, 40, 3800),
		refuel("r3", day(2024, 3, 5), 1900, 40, 3800),
		refuel("r4", day(2024, 4, 5), 2500, 40, 3800),
	}
	usages := []models.UsageEvent{
		usage("u1", day(2024, 1, 10), 1000, 1100, 10),
		usage("u2", day(2024, 2, 10), 1400, 1500, 10),
		usage("u3", day(2024, 3, 5), 1900, 2000, 10),
	}

	report := FuelConsumption(vehicleID, window(day(2024, 2, 5), day(2024, 3, 5)), refuels, usages)

	require.Len(t, report.Records, 2)
	assert.Equal(t, "r2", report.Records[0].ID)
	assert.Nil(t, report.Records[0].MileageBetween, "first event in the window has no predecessor")
	assert.Equal(t, 500.0, *report.Records[1].MileageBetween)

	require.Len(t, report.UsageRecords, 2)
	assert.Equal(t, "u2", report.UsageRecords[0].ID)
	assert.Equal(t, "u3", report.UsageRecords[1].ID)

	assert.Equal(t, 500.0, *report.Summary.TotalMileage)
	assert.InDelta(t, 500.0/80.0, *report.Summary.AvgFuelEfficiency, 1e-12)

	open := FuelConsumption(vehicleID, models.Window{Start: report.Window.Start}, refuels, usages)
	assert.Len(t, open.Records, 4, "a single bound does not filter")
}

func TestFuelConsumption_OdometerRollback(t *testing.T) {
	report := FuelConsumption(vehicleID, models.Window{}, []models.RefuelingEvent{
		refuel("r1", day(2024, 1, 1), 5000, 40, 3800),
		refuel("r2", day(2024, 1, 8), 4800, 40, 3800),
		refuel("r3", day(2024, 1, 15), 5300, 40, 3800),
	}, nil)

	assert.Equal(t, -200.0, *report.Records[1].MileageBetween)
	assert.Equal(t, -5.0, *report.Records[1].FuelEfficiency)
	// max - min, not last - first
	assert.Equal(t, 500.0, *report.Summary.TotalMileage)
}
