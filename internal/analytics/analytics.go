// Package analytics derives fuel, mileage and cost reports from a vehicle's
// refueling and usage logs.
//
// The engine is pure: callers load the events for one vehicle, pass them in
// together with an optional date window, and get a report back. Events are
// always re-sorted by date before any comparison with a previous event, so the
// order in which a store returns them does not matter. Metrics whose
// denominator is zero are reported as nil rather than as errors.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ukydev/sitefleet/internal/models"
)

// ReportKind names one of the derived reports.
type ReportKind string

const (
	KindFuelConsumption ReportKind = "fuel-consumption"
	KindUsageAnalysis   ReportKind = "usage-analysis"
	KindMileageTracking ReportKind = "mileage-tracking"
	KindCostAnalysis    ReportKind = "cost-analysis"
)

// ReportKinds lists every supported report.
var ReportKinds = []ReportKind{KindFuelConsumption, KindUsageAnalysis, KindMileageTracking, KindCostAnalysis}

var (
	ErrMissingVehicleID  = errors.New("vehicle id is required")
	ErrUnknownReportKind = errors.New("unknown report kind")
	ErrVehicleMismatch   = errors.New("event belongs to another vehicle")
	ErrNonFiniteValue    = errors.New("event has a non-finite numeric value")
)

// ReportError carries the request context of a failed report.
type ReportError struct {
	Kind      ReportKind
	VehicleID string
	EventID   string
	Err       error
}

func (e *ReportError) Error() string {
	msg := fmt.Sprintf("analytics: %s report for vehicle %q", e.Kind, e.VehicleID)
	if e.EventID != "" {
		msg += fmt.Sprintf(" (event %s)", e.EventID)
	}
	return msg + ": " + e.Err.Error()
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// ParseReportKind maps a wire name to a ReportKind.
func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ReportKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReportKind, s)
}

// Report is implemented by every report shape.
type Report interface {
	ReportKind() ReportKind
}

// Request is the input of Run.
type Request struct {
	VehicleID  string
	Window     models.Window
	Kind       ReportKind
	Refuelings []models.RefuelingEvent
	Usages     []models.UsageEvent
}

// Run validates req and computes the requested report.
func Run(req Request) (Report, error) {
	if strings.TrimSpace(req.VehicleID) == "" {
		return nil, &ReportError{Kind: req.Kind, Err: ErrMissingVehicleID}
	}
	if err := checkEvents(req); err != nil {
		return nil, err
	}

	switch req.Kind {
	case KindFuelConsumption:
		return FuelConsumption(req.VehicleID, req.Window, req.Refuelings, req.Usages), nil
	case KindUsageAnalysis:
		return UsageAnalysis(req.VehicleID, req.Window, req.Usages, req.Refuelings), nil
	case KindMileageTracking:
		return MileageTracking(req.VehicleID, req.Window, req.Refuelings), nil
	case KindCostAnalysis:
		return CostAnalysis(req.VehicleID, req.Window, req.Refuelings), nil
	}
	return nil, &ReportError{Kind: req.Kind, VehicleID: req.VehicleID, Err: ErrUnknownReportKind}
}

func checkEvents(req Request) error {
	fail := func(id string, err error) error {
		return &ReportError{Kind: req.Kind, VehicleID: req.VehicleID, EventID: id, Err: err}
	}
	for _, r := range req.Refuelings {
		if r.VehicleID != req.VehicleID {
			return fail(r.ID, ErrVehicleMismatch)
		}
		if !finite(r.Odometer, r.FuelAmount, r.FuelCost) {
			return fail(r.ID, ErrNonFiniteValue)
		}
	}
	for _, u := range req.Usages {
		if u.VehicleID != req.VehicleID {
			return fail(u.ID, ErrVehicleMismatch)
		}
		if !finite(u.StartOdometer, u.EndOdometer, u.FuelConsumed) {
			return fail(u.ID, ErrNonFiniteValue)
		}
	}
	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func ptr[T any](v T) *T {
	return &v
}

// ratio returns num/den, or nil when den is zero.
func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	return ptr(num / den)
}

// refuelingsInWindow returns a date-sorted copy of the events inside w.
func refuelingsInWindow(events []models.RefuelingEvent, w models.Window) []models.RefuelingEvent {
	out := make([]models.RefuelingEvent, 0, len(events))
	for _, e := range events {
		if w.Contains(e.RefuelingDate) {
			out = append(out, e)
		}
	}
	sortRefuelings(out)
	return out
}

func sortRefuelings(events []models.RefuelingEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return models.Day(events[i].RefuelingDate).Before(models.Day(events[j].RefuelingDate))
	})
}

// usagesInWindow returns a date-sorted copy of the usage events inside w.
func usagesInWindow(events []models.UsageEvent, w models.Window) []models.UsageEvent {
	out := make([]models.UsageEvent, 0, len(events))
	for _, e := range events {
		if w.Contains(e.UsageDate) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return models.Day(out[i].UsageDate).Before(models.Day(out[j].UsageDate))
	})
	return out
}
