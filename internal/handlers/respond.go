package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ukydev/sitefleet/internal/db"
	"github.com/ukydev/sitefleet/internal/middleware"
	"github.com/ukydev/sitefleet/internal/models"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON body into v and answers 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// writeValidation answers 400 with the failing field when err is a
// validation error and reports whether it did.
func writeValidation(w http.ResponseWriter, err error) bool {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": verr.Message,
		"field": verr.Field,
	})
	return true
}

func isNotFound(err error) bool {
	return errors.Is(err, db.ErrNotFound)
}

// writeStoreError maps db.ErrNotFound to 404 and logs everything else as a 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, what string) {
	if isNotFound(err) {
		http.Error(w, what+" not found", http.StatusNotFound)
		return
	}
	middleware.Logger(r.Context()).WithError(err).WithField("resource", what).Error("store operation failed")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
