package catalog

import (
	"encoding/json"
	"net/http"
	"time"

	"bits-and-bites/internal/logger"
	"bits-and-bites/internal/menu"
)

// Handler serves the read-only menu catalog. The catalog is static
// in-process data, so requests never touch a collaborator.
type Handler struct {
	logger *logger.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(log *logger.Logger) *Handler {
	return &Handler{logger: log}
}

// MenuResponse wraps the catalog for the API.
type MenuResponse struct {
	Categories menu.Menu `json:"categories"`
}

// GetMenu handles GET /api/menu requests
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	requestID := logger.GenerateRequestID()
	response := MenuResponse{Categories: menu.Categories()}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode menu response", requestID, err, nil)
	}
}

// SetupRoutes registers the catalog routes on the mux
func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/menu", h.GetMenu)
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":     message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
