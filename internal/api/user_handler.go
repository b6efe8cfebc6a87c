package api

import (
	"encoding/json"
	"net/http"

	"fleetrent/internal/db"
	"fleetrent/internal/entities"
	"fleetrent/internal/service"
)

type UserHandler struct {
	Service *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin) == nil {
		return
	}
	users, err := h.Service.List(r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.Service.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin) == nil {
		return
	}
	var req entities.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	user, err := h.Service.Create(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req entities.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	user, err := h.Service.Update(id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := requireRole(w, r, db.RoleAdmin)
	if actor == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(id, actor); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User deleted")
}
