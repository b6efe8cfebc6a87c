package api

import (
	"encoding/json"
	"net/http"

	"fleetrent/internal/auth"
	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	"fleetrent/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	bookings, err := h.Service.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// Mine lists the bookings belonging to the authenticated user's customer
// records.
func (h *BookingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	bookings, err := h.Service.Mine(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	booking, err := h.Service.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Create serves both the public checkout form and authenticated booking
// creation; the request body carries the customer contact info either way.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	booking, err := h.Service.Create(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req entities.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	booking, err := h.Service.Update(id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
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
	writeMessage(w, http.StatusOK, "Booking deleted")
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	booking, err := h.Service.Approve(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if auth.UserFromContext(r.Context()) == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	booking, err := h.Service.Cancel(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
