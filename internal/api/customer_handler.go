package api

import (
	"encoding/json"
	"net/http"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	"fleetrent/internal/service"
)

type CustomerHandler struct {
	Service *service.CustomerService
}

func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: svc}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	customers, err := h.Service.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	customer, err := h.Service.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	var req entities.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	customer, err := h.Service.Create(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin, db.RoleStaff) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req entities.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	customer, err := h.Service.Update(id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	writeMessage(w, http.StatusOK, "Customer deleted")
}
