package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cellseg-labs/cellseg/internal/profiles"
)

type saveProfileRequest struct {
	Name    string           `json:"name"`
	Profile profiles.Profile `json:"profile"`
}

func (h *Handler) HandleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		names, err := h.profileStore.List()
		if err != nil {
			h.writeError(w, "Failed to list profiles: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]any{"profiles": names})
	case "POST":
		var request saveProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		safe, err := h.profileStore.Save(request.Name, request.Profile)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeJSON(w, map[string]string{"name": safe, "message": "Profile saved"})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleProfileDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/profiles/")

	switch r.Method {
	case "GET":
		profile, err := h.profileStore.Load(name)
		if err != nil {
			status := http.StatusBadRequest
			if strings.Contains(err.Error(), "not found") {
				status = http.StatusNotFound
			}
			h.writeError(w, err.Error(), status)
			return
		}
		h.writeJSON(w, profile)
	case "DELETE":
		if err := h.profileStore.Delete(name); err != nil {
			status := http.StatusBadRequest
			if strings.Contains(err.Error(), "not found") {
				status = http.StatusNotFound
			}
			h.writeError(w, err.Error(), status)
			return
		}
		h.writeJSON(w, map[string]string{"message": "Profile deleted"})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
