package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/cellseg-labs/cellseg/internal/handlers"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Long: `Starts the cellseg web interface on the specified port.

The web interface lets you upload a microscopy image, pick a pretrained
model and parameters, run segmentation and download the result bundle
(mask .npy, colormapped PNG, outline overlay and comparison figure).`,
		Example: `  # Start server on default port 8585
  cellseg serve

  # Start server on custom port
  cellseg serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeEngine, err := newEngine()
			if err != nil {
				return err
			}
			defer closeEngine()

			handler := handlers.New(eng)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/upload", handler.HandleUpload)
			mux.HandleFunc("/api/segment", handler.HandleSegment)
			mux.HandleFunc("/api/sessions", handler.HandleSessions)
			mux.HandleFunc("/api/sessions/", handler.HandleSessionDetail)
			mux.HandleFunc("/api/profiles", handler.HandleProfiles)
			mux.HandleFunc("/api/profiles/", handler.HandleProfileDetail)
			mux.HandleFunc("/api/models", handler.HandleModels)
			mux.HandleFunc("/", handler.HandleStatic)
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Cellseg interface available", "addr", addr, "url", "http://localhost"+addr, "engine", eng.Name())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8585", "Port to listen on")

	return cmd
}
