package handlers

import (
	"net/http"

	"github.com/ukydev/sitefleet/internal/db"
	"github.com/ukydev/sitefleet/internal/events"
	"github.com/ukydev/sitefleet/internal/models"
)

// VehicleHandler serves the site vehicle registry.
type VehicleHandler struct {
	vehicles  db.VehicleCollection
	publisher events.Publisher
}

func NewVehicleHandler(vehicles db.VehicleCollection, publisher events.Publisher) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, publisher: publisher}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicles.FindVehicles(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "Vehicle")
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	if !decodeJSON(w, r, &vehicle) {
		return
	}
	if err := vehicle.Validate(); err != nil {
		writeValidation(w, err)
		return
	}

	created, err := h.vehicles.InsertVehicle(r.Context(), vehicle)
	if err != nil {
		writeStoreError(w, r, err, "Vehicle")
		return
	}
	events.Notify(h.publisher, events.Event{Type: events.VehicleCreated, ID: created.ID, VehicleID: created.ID, Data: created})
	writeJSON(w, http.StatusCreated, created)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, "Vehicle")
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// Update replaces a vehicle. The id and creation time are kept.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "Vehicle")
		return
	}

	var vehicle models.Vehicle
	if !decodeJSON(w, r, &vehicle) {
		return
	}
	if err := vehicle.Validate(); err != nil {
		writeValidation(w, err)
		return
	}
	vehicle.ID = id
	vehicle.CreatedAt = existing.CreatedAt

	if err := h.vehicles.UpdateVehicle(r.Context(), id, vehicle); err != nil {
		writeStoreError(w, r, err, "Vehicle")
		return
	}
	events.Notify(h.publisher, events.Event{Type: events.VehicleUpdated, ID: id, VehicleID: id, Data: vehicle})
	writeJSON(w, http.StatusOK, vehicle)
}

// Delete removes the vehicle record only; its logs stay queryable by id.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.vehicles.DeleteVehicle(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "Vehicle")
		return
	}
	events.Notify(h.publisher, events.Event{Type: events.VehicleDeleted, ID: id, VehicleID: id})
	w.WriteHeader(http.StatusNoContent)
}
