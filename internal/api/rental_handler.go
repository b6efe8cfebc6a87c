package api

import (
	"encoding/json"
	"io"
	"net/http"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	"fleetrent/internal/service"
)

type RentalHandler struct {
	Service *service.RentalService
}

func NewRentalHandler(svc *service.RentalService) *RentalHandler {
	return &RentalHandler{Service: svc}
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	rentals, err := h.Service.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rental, err := h.Service.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// Checkout opens a rental for a booking. The optional body carries the
// odometer and fuel readings taken at pickup.
func (h *RentalHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	bookingID, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodeTelemetry(w, r)
	if !ok {
		return
	}
	rental, err := h.Service.Checkout(bookingID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	rentalID, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodeTelemetry(w, r)
	if !ok {
		return
	}
	rental, err := h.Service.Return(rentalID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Update(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req entities.UpdateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	rental, err := h.Service.Update(id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Rental deleted")
}

// decodeTelemetry reads an optional telemetry body. An empty body is fine;
// malformed JSON is not.
func decodeTelemetry(w http.ResponseWriter, r *http.Request) (entities.UpdateRentalRequest, bool) {
	var req entities.UpdateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid request body")
		return req, false
	}
	return req, true
}
