package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/kisfolio/internal/api/response"
	"github.com/wonny/kisfolio/internal/service/brokerage"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	resolver  *brokerage.Resolver
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(resolver *brokerage.Resolver, version string) *HealthHandler {
	return &HealthHandler{
		resolver:  resolver,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string    `json:"status"`
	Mode          string    `json:"mode"`
	Version       string    `json:"version"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

// Health returns the liveness check. It has no failure modes.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, HealthResponse{
		Status:        "ok",
		Mode:          string(h.resolver.Mode()),
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now(),
	})
}
