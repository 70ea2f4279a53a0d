package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bits-and-bites/internal/docstore"
	"bits-and-bites/internal/logger"
	"bits-and-bites/internal/models"
)

// Handler handles HTTP requests for the order endpoints
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Orders routes /api/orders by method: POST creates, GET lists.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createOrder(w, r)
	case http.MethodGet:
		h.listOrders(w, r)
	default:
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	}
}

// createOrder handles POST /api/orders
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Header.Get("Content-Type") != "application/json" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Content-Type must be application/json", requestID)
		return
	}

	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	response, err := h.service.CreateOrder(r.Context(), &order, requestID)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			h.logger.Debug("validation_failed", "Order rejected", requestID, map[string]interface{}{
				"kind":  verr.Kind,
				"field": verr.Field,
			})
			h.writeErrorResponse(w, http.StatusBadRequest, verr.Message, requestID)
			return
		}

		h.logger.Error("order_creation_failed", "Failed to create order", requestID, err, map[string]interface{}{
			"customer_name": order.CustomerName,
		})
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error(), requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, response, requestID)
}

// listOrders handles GET /api/orders?limit=N
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	limit := int64(DefaultListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			h.writeErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer", requestID)
			return
		}
		limit = parsed
	}

	docs, err := h.service.ListOrders(r.Context(), limit, requestID)
	if err != nil {
		h.logger.Error("orders_list_failed", "Failed to list orders", requestID, err, map[string]interface{}{
			"limit": limit,
		})
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error(), requestID)
		return
	}

	if docs == nil {
		docs = []docstore.Document{}
	}
	h.writeJSON(w, http.StatusOK, docs, requestID)
}

// Root handles GET / requests
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.writeErrorResponse(w, http.StatusNotFound, "Not found", "")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Bits&Bites backend is running",
	}, "")
}

// TestStorage handles GET /test diagnostic requests
func (h *Handler) TestStorage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	h.writeJSON(w, http.StatusOK, h.service.Diagnostics(r.Context()), "")
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	healthy := h.service.HealthCheck(r.Context())

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "storefront",
		"healthy":   healthy,
	}

	w.Header().Set("Content-Type", "application/json")

	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		response["status"] = "unhealthy"
	}

	json.NewEncoder(w).Encode(response)
}

// SetupRoutes registers the order routes on the mux
func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/orders", h.WithLogging(h.Orders))
	mux.HandleFunc("/health", h.WithLogging(h.HealthCheck))
	mux.HandleFunc("/test", h.WithLogging(h.TestStorage))
	mux.HandleFunc("/", h.WithLogging(h.Root))
}

// WithCORS allows cross-origin requests from any storefront origin.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// WithLogging adds request logging middleware
func (h *Handler) WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		h.logger.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.Header.Get("User-Agent"),
			})

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		next(rw, r)

		duration := time.Since(start)
		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
	}
}

// writeJSON writes a JSON response body with the given status code
func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, body interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
