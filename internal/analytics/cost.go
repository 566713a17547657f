package analytics

import (
	"sort"

	"github.com/ukydev/sitefleet/internal/models"
)

// MonthLayout formats the month key of a cost group.
const MonthLayout = "2006-01"

// MonthlyCost aggregates the refuels of one calendar month. The cost-per-liter
// statistics only cover events with a non-zero fuel amount.
type MonthlyCost struct {
	Month           string   `json:"month"`
	Refuels         int      `json:"refuels"`
	TotalFuel       float64  `json:"total_fuel"`
	TotalCost       float64  `json:"total_cost"`
	AvgCostPerLiter *float64 `json:"avg_cost_per_liter"`
	MinCostPerLiter *float64 `json:"min_cost_per_liter"`
	MaxCostPerLiter *float64 `json:"max_cost_per_liter"`
}

// CostAnalysisReport is the cost-analysis report.
type CostAnalysisReport struct {
	VehicleID string        `json:"vehicle_id"`
	Window    models.Window `json:"window"`
	Months    []MonthlyCost `json:"months"`
	TotalFuel float64       `json:"total_fuel"`
	TotalCost float64       `json:"total_cost"`
}

func (CostAnalysisReport) ReportKind() ReportKind { return KindCostAnalysis }

// CostAnalysis groups refuels by calendar month, oldest month first.
func CostAnalysis(vehicleID string, w models.Window, refuels []models.RefuelingEvent) CostAnalysisReport {
	events := refuelingsInWindow(refuels, w)

	grouped := make(map[string][]models.RefuelingEvent)
	order := make([]string, 0)
	for _, e := range events {
		key := e.RefuelingDate.Format(MonthLayout)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], e)
	}
	sort.Strings(order)

	report := CostAnalysisReport{
		VehicleID: vehicleID,
		Window:    w,
		Months:    make([]MonthlyCost, 0, len(order)),
	}
	for _, key := range order {
		m := aggregateMonth(key, grouped[key])
		report.TotalFuel += m.TotalFuel
		report.TotalCost += m.TotalCost
		report.Months = append(report.Months, m)
	}
	return report
}

func aggregateMonth(key string, events []models.RefuelingEvent) MonthlyCost {
	m := MonthlyCost{Month: key, Refuels: len(events)}
	var sum float64
	var n int
	for _, e := range events {
		m.TotalFuel += e.FuelAmount
		m.TotalCost += e.FuelCost

		cpl := e.CostPerLiter()
		if cpl == nil {
			continue
		}
		sum += *cpl
		n++
		if m.MinCostPerLiter == nil || *cpl < *m.MinCostPerLiter {
			m.MinCostPerLiter = ptr(*cpl)
		}
		if m.MaxCostPerLiter == nil || *cpl > *m.MaxCostPerLiter {
			m.MaxCostPerLiter = ptr(*cpl)
		}
	}
	if n > 0 {
		m.AvgCostPerLiter = ptr(sum / float64(n))
	}
	return m
}
