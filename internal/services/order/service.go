package order

import (
	"context"
	"time"

	"bits-and-bites/internal/docstore"
	"bits-and-bites/internal/logger"
	"bits-and-bites/internal/models"
)

const (
	ordersCollection = "order"

	// DefaultListLimit caps order listings when the client does not ask
	// for a specific limit.
	DefaultListLimit = 50
)

// EventPublisher publishes order lifecycle events. A nil publisher disables
// notifications.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, msg *models.OrderCreatedMessage) error
}

// Service implements order intake and listing on top of the document store.
type Service struct {
	store     docstore.Store
	publisher EventPublisher
	backend   string
	logger    *logger.Logger
}

// NewService creates a new order service
func NewService(store docstore.Store, publisher EventPublisher, backend string, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		backend:   backend,
		logger:    log,
	}
}

// CreateOrder validates the order, recomputes its totals and persists it.
// The returned response carries the identifier assigned by the store.
func (s *Service) CreateOrder(ctx context.Context, order *models.Order, requestID string) (*models.CreateOrderResponse, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	order.RecomputeTotals()

	orderID, err := s.store.CreateDocument(ctx, ordersCollection, orderDocument(order))
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_created", "Order stored", requestID, map[string]interface{}{
		"order_id":       orderID,
		"customer_name":  order.CustomerName,
		"payment_method": order.PaymentMethod,
		"total":          order.Total,
	})

	// Notifications are best effort; a publish failure never fails the order.
	if s.publisher != nil {
		msg := &models.OrderCreatedMessage{
			OrderID:       orderID,
			CustomerName:  order.CustomerName,
			PaymentMethod: order.PaymentMethod,
			Total:         order.Total,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.publisher.PublishOrderCreated(ctx, msg); err != nil {
			s.logger.Error("notification_failed", "Failed to publish order_created event", requestID, err, map[string]interface{}{
				"order_id": orderID,
			})
		}
	}

	return &models.CreateOrderResponse{
		Status:  "ok",
		OrderID: orderID,
	}, nil
}

// ListOrders fetches up to limit stored orders. Identifiers and timestamps
// are rendered as strings before they reach the response.
func (s *Service) ListOrders(ctx context.Context, limit int64, requestID string) ([]docstore.Document, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	docs, err := s.store.GetDocuments(ctx, ordersCollection, nil, limit)
	if err != nil {
		return nil, err
	}

	out := make([]docstore.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, docstore.RenderStrings(doc))
	}

	s.logger.Debug("orders_listed", "Fetched stored orders", requestID, map[string]interface{}{
		"count": len(out),
		"limit": limit,
	})

	return out, nil
}

// Diagnostics reports storage reachability for the /test endpoint.
func (s *Service) Diagnostics(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"backend":           "running",
		"storage_backend":   s.backend,
		"database":          "not available",
		"connection_status": "not connected",
		"collections":       []string{},
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.store.Ping(pingCtx); err != nil {
		status["database"] = "error: " + err.Error()
		return status
	}

	status["database"] = "connected"
	status["connection_status"] = "connected"

	if names, err := s.store.Collections(pingCtx); err == nil {
		status["collections"] = names
	}

	return status
}

// HealthCheck reports whether the storage collaborator is reachable.
func (s *Service) HealthCheck(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.store.Ping(pingCtx) == nil
}

// orderDocument flattens an order into the schemaless record handed to the
// storage collaborator.
func orderDocument(order *models.Order) docstore.Document {
	items := make([]docstore.Document, 0, len(order.Items))
	for _, item := range order.Items {
		doc := docstore.Document{
			"name":     item.Name,
			"price":    item.Price,
			"quantity": item.Quantity,
		}
		if item.Category != "" {
			doc["category"] = item.Category
		}
		items = append(items, doc)
	}

	doc := docstore.Document{
		"customer_name":  order.CustomerName,
		"phone":          order.Phone,
		"payment_method": order.PaymentMethod,
		"items":          items,
		"subtotal":       order.Subtotal,
		"discount":       order.Discount,
		"total":          order.Total,
	}
	if order.Notes != "" {
		doc["notes"] = order.Notes
	}
	return doc
}
