package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/sitefleet/internal/models"
)

func TestCostAnalysis_GroupsByMonth(t *testing.T) {
	refuels := []models.RefuelingEvent{
		refuel("r3", day(2024, 2, 2), 1800, 50, 5500), // 110
		refuel("r1", day(2024, 1, 3), 1000, 40, 3600), // 90
		refuel("r2", day(2024, 1, 28), 1400, 40, 4000), // 100
	}

	report := CostAnalysis(vehicleID, models.Window{}, refuels)
	require.Len(t, report.Months, 2)

	jan := report.Months[0]
	assert.Equal(t, "2024-01", jan.Month)
	assert.Equal(t, 2, jan.Refuels)
	assert.Equal(t, 80.0, jan.TotalFuel)
	assert.Equal(t, 7600.0, jan.TotalCost)
	assert.Equal(t, 95.0, *jan.AvgCostPerLiter)
	assert.Equal(t, 90.0, *jan.MinCostPerLiter)
	assert.Equal(t, 100.0, *jan.MaxCostPerLiter)

	feb := report.Months[1]
	assert.Equal(t, "2024-02", feb.Month)
	assert.Equal(t, 1, feb.Refuels)
	assert.Equal(t, 110.0, *feb.AvgCostPerLiter)

	assert.Equal(t, 130.0, report.TotalFuel)
	assert.Equal(t, 13100.0, report.TotalCost)
}

func TestCostAnalysis_SameMonthDifferentYearsNeverMerge(t *testing.T) {
	refuels := []models.RefuelingEvent{
		refuel("r2", day(2024, 3, 10), 2000, 40, 4000),
		refuel("r1", day(2023, 3, 10), 1000, 40, 3600),
		refuel("r3", day(2023, 12, 31), 1500, 40, 3600),
	}

	report := CostAnalysis(vehicleID, models.Window{}, refuels)
	require.Len(t, report.Months, 3)
	assert.Equal(t, "2023-03", report.Months[0].Month)
	assert.Equal(t, "2023-12", report.Months[1].Month)
	assert.Equal(t, "2024-03", report.Months[2].Month)
	for _, m := range report.Months {
		assert.Equal(t, 1, m.Refuels)
	}
}

func TestCostAnalysis_ZeroAmountEvents(t *testing.T) {
	refuels := []models.RefuelingEvent{
		refuel("r1", day(2024, 5, 1), 1000, 0, 0),
	}

	report := CostAnalysis(vehicleID, models.Window{}, refuels)
	require.Len(t, report.Months, 1)
	m := report.Months[0]
	assert.Equal(t, 1, m.Refuels)
	assert.Nil(t, m.AvgCostPerLiter)
	assert.Nil(t, m.MinCostPerLiter)
	assert.Nil(t, m.MaxCostPerLiter)
}

func TestCostAnalysis_Window(t *testing.T) {
	refuels := []models.RefuelingEvent{
		refuel("r1", day(2024, 1, 31), 1000, 40, 3600),
		refuel("r2", day(2024, 2, 1), 1400, 40, 4000),
	}

	report := CostAnalysis(vehicleID, window(day(2024, 2, 1), day(2024, 2, 29)), refuels)
	require.Len(t, report.Months, 1)
	assert.Equal(t, "2024-02", report.Months[0].Month)

	empty := CostAnalysis(vehicleID, window(day(2025, 1, 1), day(2025, 1, 31)), refuels)
	assert.Empty(t, empty.Months)
	assert.Equal(t, 0.0, empty.TotalCost)
}
