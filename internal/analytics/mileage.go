package analytics

import (
	"github.com/ukydev/sitefleet/internal/models"
)

// Rating classifies the odometer gap between consecutive refuels.
type Rating string

const (
	RatingGood   Rating = "Good Efficiency"
	RatingNormal Rating = "Normal Efficiency"
	RatingPoor   Rating = "Poor Efficiency"
)

// PoorGapThreshold is the gap at or below which a refuel is rated poor. A
// negative gap means the odometer went backwards between refuels.
const PoorGapThreshold = -100.0

// ClassifyMileageGap rates a gap: positive is good, (-100, 0] normal, and
// -100 or below poor.
func ClassifyMileageGap(gap float64) Rating {
	switch {
	case gap > 0:
		return RatingGood
	case gap > PoorGapThreshold:
		return RatingNormal
	default:
		return RatingPoor
	}
}

// MileageRecord is a refueling event with its gap to the previous refuel.
// The first record of a window is unrated.
type MileageRecord struct {
	models.RefuelingEvent
	PreviousOdometer *float64 `json:"previous_odometer"`
	MileageGap       *float64 `json:"mileage_gap"`
	Efficiency       *float64 `json:"efficiency"`
	Rating           *Rating  `json:"efficiency_rating"`
}

// RatingCounts tallies rated records.
type RatingCounts struct {
	Good   int `json:"good"`
	Normal int `json:"normal"`
	Poor   int `json:"poor"`
}

// MileageTrackingReport is the mileage-tracking report.
type MileageTrackingReport struct {
	VehicleID string          `json:"vehicle_id"`
	Window    models.Window   `json:"window"`
	Records   []MileageRecord `json:"records"`
	Ratings   RatingCounts    `json:"ratings"`
}

func (MileageTrackingReport) ReportKind() ReportKind { return KindMileageTracking }

// MileageTracking builds the mileage-tracking report. Odometer rollbacks are
// recorded with their negative gap and rated, never rejected.
func MileageTracking(vehicleID string, w models.Window, refuels []models.RefuelingEvent) MileageTrackingReport {
	events := refuelingsInWindow(refuels, w)
	report := MileageTrackingReport{
		VehicleID: vehicleID,
		Window:    w,
		Records:   make([]MileageRecord, 0, len(events)),
	}

	for i, e := range events {
		rec := MileageRecord{RefuelingEvent: e}
		if i > 0 {
			prev := events[i-1]
			gap := e.Odometer - prev.Odometer
			rating := ClassifyMileageGap(gap)
			rec.PreviousOdometer = ptr(prev.Odometer)
			rec.MileageGap = ptr(gap)
			rec.Efficiency = ratio(gap, prev.FuelAmount)
			rec.Rating = &rating

			switch rating {
			case RatingGood:
				report.Ratings.Good++
			case RatingNormal:
				report.Ratings.Normal++
			case RatingPoor:
				report.Ratings.Poor++
			}
		}
		report.Records = append(report.Records, rec)
	}
	return report
}
