package handlers

import (
	"net/http"

	"github.com/ukydev/sitefleet/internal/db"
	"github.com/ukydev/sitefleet/internal/events"
	"github.com/ukydev/sitefleet/internal/models"
)

// UsageHandler serves the trip log. Invalid odometer readings are rejected
// here so reports never see them.
type UsageHandler struct {
	usages    db.UsageCollection
	vehicles  db.VehicleCollection
	publisher events.Publisher
}

func NewUsageHandler(usages db.UsageCollection, vehicles db.VehicleCollection, publisher events.Publisher) *UsageHandler {
	return &UsageHandler{usages: usages, vehicles: vehicles, publisher: publisher}
}

func (h *UsageHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := eventFilter(w, r)
	if !ok {
		return
	}
	usages, err := h.usages.FindUsages(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err, "Usage")
		return
	}
	if usages == nil {
		usages = []models.UsageEvent{}
	}
	writeJSON(w, http.StatusOK, usages)
}

func (h *UsageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var event models.UsageEvent
	if !decodeJSON(w, r, &event) {
		return
	}
	if err := event.Validate(); err != nil {
		writeValidation(w, err)
		return
	}
	if !vehicleExists(w, r, h.vehicles, event.VehicleID) {
		return
	}

	created, err := h.usages.InsertUsage(r.Context(), event)
	if err != nil {
		writeStoreError(w, r, err, "Usage")
		return
	}
	events.Notify(h.publisher, events.Event{Type: events.UsageCreated, ID: created.ID, VehicleID: created.VehicleID, Data: created})
	writeJSON(w, http.StatusCreated, created)
}

func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.usages.FindUsageByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, "Usage")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *UsageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.usages.FindUsageByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "Usage")
		return
	}

	var event models.UsageEvent
	if !decodeJSON(w, r, &event) {
		return
	}
	if err := event.Validate(); err != nil {
		writeValidation(w, err)
		return
	}
	if event.VehicleID != existing.VehicleID && !vehicleExists(w, r, h.vehicles, event.VehicleID) {
		return
	}
	event.ID = id
	event.CreatedAt = existing.CreatedAt

	if err := h.usages.UpdateUsage(r.Context(), id, event); err != nil {
		writeStoreError(w, r, err, "Usage")
		return
	}
	events.Notify(h.publisher, events.Event{Type: events.UsageUpdated, ID: id, VehicleID: event.VehicleID, Data: event})
	writeJSON(w, http.StatusOK, event)
}

func (h *UsageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.usages.FindUsageByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "Usage")
		return
	}
	if err := h.usages.DeleteUsage(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "Usage")
		return
	}
	events.Notify(h.publisher, events.Event{Type: events.UsageDeleted, ID: id, VehicleID: existing.VehicleID})
	w.WriteHeader(http.StatusNoContent)
}
