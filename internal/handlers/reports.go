package handlers

import (
	"bytes"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/sitefleet/internal/analytics"
	"github.com/ukydev/sitefleet/internal/db"
	"github.com/ukydev/sitefleet/internal/export"
	"github.com/ukydev/sitefleet/internal/metrics"
	"github.com/ukydev/sitefleet/internal/middleware"
	"github.com/ukydev/sitefleet/internal/models"
)

// ReportHandler computes analytics reports for one vehicle.
type ReportHandler struct {
	vehicles   db.VehicleCollection
	refuelings db.RefuelingCollection
	usages     db.UsageCollection
	metrics    *metrics.Metrics
}

func NewReportHandler(vehicles db.VehicleCollection, refuelings db.RefuelingCollection, usages db.UsageCollection, m *metrics.Metrics) *ReportHandler {
	return &ReportHandler{vehicles: vehicles, refuelings: refuelings, usages: usages, metrics: m}
}

// build loads the vehicle's complete logs and runs the engine over them. The
// full history is loaded because previous-event lookups may reach before the
// window start.
func (h *ReportHandler) build(w http.ResponseWriter, r *http.Request) (analytics.Report, bool) {
	kind, err := analytics.ParseReportKind(r.PathValue("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	q := r.URL.Query()
	window, err := models.ParseWindow(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	vehicleID := r.PathValue("id")
	if _, err := h.vehicles.FindVehicleByID(r.Context(), vehicleID); err != nil {
		writeStoreError(w, r, err, "Vehicle")
		return nil, false
	}

	all := db.EventFilter{VehicleID: vehicleID}
	refuelings, err := h.refuelings.FindRefuelings(r.Context(), all)
	if err != nil {
		writeStoreError(w, r, err, "Refueling")
		return nil, false
	}
	var usages []models.UsageEvent
	if kind == analytics.KindUsageAnalysis || kind == analytics.KindFuelConsumption {
		if usages, err = h.usages.FindUsages(r.Context(), all); err != nil {
			writeStoreError(w, r, err, "Usage")
			return nil, false
		}
	}

	report, err := analytics.Run(analytics.Request{
		VehicleID:  vehicleID,
		Window:     window,
		Kind:       kind,
		Refuelings: refuelings,
		Usages:     usages,
	})
	if err != nil {
		h.observe(kind, err)
		var reportErr *analytics.ReportError
		if errors.As(err, &reportErr) {
			middleware.Logger(r.Context()).WithError(err).Warn("report rejected stored data")
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return nil, false
		}
		middleware.Logger(r.Context()).WithError(err).Error("report failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	h.observe(kind, nil)

	middleware.Logger(r.Context()).WithFields(log.Fields{
		"vehicle_id": vehicleID,
		"kind":       kind,
		"refuelings": len(refuelings),
		"usages":     len(usages),
	}).Debug("report computed")
	return report, true
}

func (h *ReportHandler) observe(kind analytics.ReportKind, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	h.metrics.ReportComputed(string(kind), outcome)
}

// Get returns a report as JSON.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Export returns a report as an XLSX workbook.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, report); err != nil {
		middleware.Logger(r.Context()).WithError(err).Error("failed to render workbook")
		http.Error(w, "Failed to export report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(r.PathValue("id"), report.ReportKind())+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
