package handlers

import (
	"net/http"

	"github.com/ukydev/sitefleet/internal/db"
	"github.com/ukydev/sitefleet/internal/events"
	"github.com/ukydev/sitefleet/internal/models"
)

// RefuelingHandler serves the refueling log.
type RefuelingHandler struct {
	refuelings db.RefuelingCollection
	vehicles   db.VehicleCollection
	publisher  events.Publisher
}

func NewRefuelingHandler(refuelings db.RefuelingCollection, vehicles db.VehicleCollection, publisher events.Publisher) *RefuelingHandler {
	return &RefuelingHandler{refuelings: refuelings, vehicles: vehicles, publisher: publisher}
}

// eventFilter reads vehicle_id, start_date and end_date from the query.
func eventFilter(w http.ResponseWriter, r *http.Request) (db.EventFilter, bool) {
	q := r.URL.Query()
	window, err := models.ParseWindow(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return db.EventFilter{}, false
	}
	return db.EventFilter{VehicleID: q.Get("vehicle_id"), Window: window}, true
}

// vehicleExists answers 400 for an unknown vehicle reference.
func vehicleExists(w http.ResponseWriter, r *http.Request, vehicles db.VehicleCollection, id string) bool {
	if _, err := vehicles.FindVehicleByID(r.Context(), id); err != nil {
		if isNotFound(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "vehicle does not exist",
				"field": "vehicle_id",
			})
			return false
		}
		writeStoreError(w, r, err, "Vehicle")
		return false
	}
	return true
}

func (h *RefuelingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := eventFilter(w, r)
	if !ok {
		return
	}
	refuelings, err := h.refuelings.FindRefuelings(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err, "Refueling")
		return
	}
	if refuelings == nil {
		refuelings = []models.RefuelingEvent{}
	}
	writeJSON(w, http.StatusOK, refuelings)
}

func (h *RefuelingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var event models.RefuelingEvent
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

	created, err := h.refuelings.InsertRefueling(r.Context(), event)
	if err != nil {
		writeStoreError(w, r, err, "Refueling")
		return
	}
	events.Notify(h.publisher, events.Event{Type: events.RefuelingCreated, ID: created.ID, VehicleID: created.VehicleID, Data: created})
	writeJSON(w, http.StatusCreated, created)
}

func (h *RefuelingHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.refuelings.FindRefuelingByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, "Refueling")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *RefuelingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.refuelings.FindRefuelingByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "Refueling")
		return
	}

	var event models.RefuelingEvent
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

	if err := h.refuelings.UpdateRefueling(r.Context(), id, event); err != nil {
		writeStoreError(w, r, err, "Refueling")
		return
	}
	events.Notify(h.publisher, events.Event{Type: events.RefuelingUpdated, ID: id, VehicleID: event.VehicleID, Data: event})
	writeJSON(w, http.StatusOK, event)
}

func (h *RefuelingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.refuelings.FindRefuelingByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "Refueling")
		return
	}
	if err := h.refuelings.DeleteRefueling(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "Refueling")
		return
	}
	events.Notify(h.publisher, events.Event{Type: events.RefuelingDeleted, ID: id, VehicleID: existing.VehicleID})
	w.WriteHeader(http.StatusNoContent)
}
