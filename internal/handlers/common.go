package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/cellseg-labs/cellseg/internal/artifacts"
	"github.com/cellseg-labs/cellseg/internal/engine"
	"github.com/cellseg-labs/cellseg/internal/images"
	"github.com/cellseg-labs/cellseg/internal/models"
	"github.com/cellseg-labs/cellseg/internal/profiles"
	"github.com/cellseg-labs/cellseg/internal/storage"
)

type Handler struct {
	sessionStore *storage.SessionStore
	profileStore *profiles.Store
	engine       engine.Engine
	fetcher      *images.Fetcher

	maxUploadBytes int64

	uploadsDir string
	outputsDir string
	staticDir  string
}

func New(eng engine.Engine) *Handler {
	return &Handler{
		sessionStore:   storage.New(),
		profileStore:   profiles.NewStore(profiles.DefaultDir),
		engine:         eng,
		fetcher:        images.NewFetcher(defaultMaxUploadBytes),
		maxUploadBytes: defaultMaxUploadBytes,
		uploadsDir:     "uploads",
		outputsDir:     artifacts.DefaultDir,
		staticDir:      "static",
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*models.SegmentSession, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

// File operation helpers
func (h *Handler) ensureUploadsDir() error {
	return os.MkdirAll(h.uploadsDir, 0755)
}
