package handlers

import (
	"net/http"
	"time"
)

// HealthHandler handles health check requests for liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler for liveness checks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// RootHandler serves the service banner on GET /.
type RootHandler struct {
	// Version is the build version reported in the banner.
	Version string
}

// NewRootHandler creates a RootHandler.
func NewRootHandler(version string) *RootHandler {
	return &RootHandler{Version: version}
}

// ServeHTTP implements http.Handler.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found", "The requested path does not exist.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service": "janus",
		"version": h.Version,
		"status":  "running",
	})
}
