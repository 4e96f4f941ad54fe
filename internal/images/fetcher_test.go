package images

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain file", "https://example.com/cells.png", "cells.png"},
		{"query string stripped", "https://example.com/cells.tif?token=abc", "cells.tif"},
		{"fragment stripped", "https://example.com/cells.png#section", "cells.png"},
		{"trailing slash no extension", "https://example.com/images/", "image.png"},
		{"no extension", "https://example.com/download", "image.png"},
		{"bare host", "https://example.com", "image.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilenameFromURL(tt.url)
			if got != tt.want {
				t.Errorf("FilenameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 2048)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "missing.png") {
			http.NotFound(w, r)
			return
		}
		if strings.HasSuffix(r.URL.Path, "tiny.png") {
			w.Write([]byte("x"))
			return
		}
		w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewFetcher(32 * 1024 * 1024)

	data, filename, err := fetcher.Fetch(server.URL + "/cells.png")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("Fetch returned %d bytes, want %d", len(data), len(payload))
	}
	if filename != "cells.png" {
		t.Errorf("Fetch filename = %q, want cells.png", filename)
	}

	if _, _, err := fetcher.Fetch(server.URL + "/missing.png"); err == nil {
		t.Error("Fetch of missing file should fail")
	}

	if _, _, err := fetcher.Fetch(server.URL + "/tiny.png"); err == nil {
		t.Error("Fetch of tiny response should fail")
	}
}
