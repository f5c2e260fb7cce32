package handlers

import (
	"net/http"
	"time"

	"github.com/dvloznov/finance-assistant/internal/api/middleware"
	"github.com/dvloznov/finance-assistant/internal/metrics"
)

// HealthHandler reports liveness.
type HealthHandler struct {
	source metrics.SnapshotSource
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(source metrics.SnapshotSource) *HealthHandler {
	return &HealthHandler{source: source}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Finance Chatbot API running",
	})
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"time":         time.Now().Format(time.RFC3339),
		"transactions": h.source.Current().Len(),
	})
}
