package handlers

import (
	"net/http"

	"github.com/cellseg-labs/cellseg/internal/engine"
	"github.com/cellseg-labs/cellseg/internal/imaging"
	"github.com/cellseg-labs/cellseg/internal/profiles"
)

// HandleModels reports the models the active engine serves plus the valid
// form settings, so the UI can populate its dropdowns.
func (h *Handler) HandleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	modelList, err := h.engine.Models(r.Context())
	if err != nil {
		// The engine may be offline; fall back to the defaults so the
		// form still renders.
		modelList = engine.ValidModels
	}

	h.writeJSON(w, map[string]any{
		"engine":           h.engine.Name(),
		"models":           modelList,
		"display_channels": imaging.ValidDisplayChannels(),
		"colormaps":        imaging.ValidColormaps(),
		"defaults":         profiles.Default(),
	})
}
