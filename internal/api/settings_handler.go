package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"fleetrent/internal/db"
	"fleetrent/internal/service"
)

// 10 MB cap on hero image uploads.
const maxUploadBytes = 10 << 20

type SettingsHandler struct {
	Service *service.SettingsService
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{Service: svc}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.Get()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// SetHeroImage accepts either a multipart upload (field "image") or a JSON
// body with an external "image_url".
func (h *SettingsHandler) SetHeroImage(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin) == nil {
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeMessage(w, http.StatusUnprocessableEntity, "Invalid upload")
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			writeMessage(w, http.StatusUnprocessableEntity, "Image file is required")
			return
		}
		defer file.Close()

		settings, err := h.Service.SetHeroImageFromUpload(header.Filename, file)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)
		return
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageURL == "" {
		writeMessage(w, http.StatusUnprocessableEntity, "Image file or image_url is required")
		return
	}
	settings, err := h.Service.SetHeroImageURL(req.ImageURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) DeleteHeroImage(w http.ResponseWriter, r *http.Request) {
	if requireRole(w, r, db.RoleAdmin) == nil {
		return
	}
	settings, err := h.Service.DeleteHeroImage()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
