package handlers

import (
	"net/http"
	"path"
	"strings"
)

func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	filepath := strings.TrimPrefix(r.URL.Path, "/static/")
	filepath = strings.TrimPrefix(filepath, "/")

	// Prevent directory traversal attacks
	if strings.Contains(filepath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	// Uploads and run outputs are served from their own directories so the
	// UI can preview images and offer artifact downloads.
	if strings.HasPrefix(filepath, "uploads/") {
		http.ServeFile(w, r, path.Join(h.uploadsDir, strings.TrimPrefix(filepath, "uploads/")))
		return
	}
	if strings.HasPrefix(filepath, "outputs/") {
		http.ServeFile(w, r, path.Join(h.outputsDir, strings.TrimPrefix(filepath, "outputs/")))
		return
	}

	if filepath == "" {
		filepath = "index.html"
	}

	// Set appropriate content type based on file extension
	switch {
	case strings.HasSuffix(filepath, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(filepath, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(filepath, ".html"):
		w.Header().Set("Content-Type", "text/html")
	case strings.HasSuffix(filepath, ".svg"):
		w.Header().Set("Content-Type", "image/svg+xml")
	}

	http.ServeFile(w, r, path.Join(h.staticDir, filepath))
}
