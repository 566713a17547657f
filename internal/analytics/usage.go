package analytics

import (
	"sort"

	"github.com/ukydev/sitefleet/internal/models"
)

// UsageAnalysisRecord is a usage event with its efficiency and an estimate
// of what the fuel burned on the trip cost.
type UsageAnalysisRecord struct {
	models.UsageEvent
	Distance             float64  `json:"distance"`
	FuelEfficiency       *float64 `json:"fuel_efficiency"`
	ReferenceRefuelingID string   `json:"reference_refueling_id,omitempty"`
	CostPerLiter         *float64 `json:"cost_per_liter"`
	EstimatedFuelCost    *float64 `json:"estimated_fuel_cost"`
}

// UsageAnalysisSummary totals the trips of the window.
type UsageAnalysisSummary struct {
	TotalTrips         int     `json:"total_trips"`
	TotalDistance      float64 `json:"total_distance"`
	TotalFuelConsumed  float64 `json:"total_fuel_consumed"`
	TotalEstimatedCost float64 `json:"total_estimated_cost"`
	UnestimatedTrips   int     `json:"unestimated_trips"`
}

// UsageAnalysisReport is the usage-analysis report.
type UsageAnalysisReport struct {
	VehicleID string                `json:"vehicle_id"`
	Window    models.Window         `json:"window"`
	Records   []UsageAnalysisRecord `json:"records"`
	Summary   UsageAnalysisSummary  `json:"summary"`
}

func (UsageAnalysisReport) ReportKind() ReportKind { return KindUsageAnalysis }

// UsageAnalysis builds the usage-analysis report. The cost estimate prices a
// trip at the cost per liter of the latest refuel dated on or before it;
// refuels outside the window still count as price references.
func UsageAnalysis(vehicleID string, w models.Window, usages []models.UsageEvent, refuels []models.RefuelingEvent) UsageAnalysisReport {
	trips := usagesInWindow(usages, w)

	prices := make([]models.RefuelingEvent, len(refuels))
	copy(prices, refuels)
	sortRefuelings(prices)

	report := UsageAnalysisReport{
		VehicleID: vehicleID,
		Window:    w,
		Records:   make([]UsageAnalysisRecord, 0, len(trips)),
	}

	for _, u := range trips {
		rec := UsageAnalysisRecord{
			UsageEvent:     u,
			Distance:       u.Distance(),
			FuelEfficiency: ratio(u.Distance(), u.FuelConsumed),
		}
		if ref, ok := latestRefuelOnOrBefore(prices, u); ok {
			rec.ReferenceRefuelingID = ref.ID
			rec.CostPerLiter = ref.CostPerLiter()
			if rec.CostPerLiter != nil {
				rec.EstimatedFuelCost = ptr(u.FuelConsumed * *rec.CostPerLiter)
			}
		}

		report.Summary.TotalTrips++
		report.Summary.TotalDistance += rec.Distance
		report.Summary.TotalFuelConsumed += u.FuelConsumed
		if rec.EstimatedFuelCost != nil {
			report.Summary.TotalEstimatedCost += *rec.EstimatedFuelCost
		} else {
			report.Summary.UnestimatedTrips++
		}
		report.Records = append(report.Records, rec)
	}
	return report
}

// latestRefuelOnOrBefore expects sorted refuels. Among refuels sharing the
// nearest date, the last one in sorted order wins.
func latestRefuelOnOrBefore(sorted []models.RefuelingEvent, u models.UsageEvent) (models.RefuelingEvent, bool) {
	day := models.Day(u.UsageDate)
	idx := sort.Search(len(sorted), func(i int) bool {
		return models.Day(sorted[i].RefuelingDate).After(day)
	})
	if idx == 0 {
		return models.RefuelingEvent{}, false
	}
	return sorted[idx-1], true
}
