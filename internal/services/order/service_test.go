package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bits-and-bites/internal/docstore"
	"bits-and-bites/internal/logger"
	"bits-and-bites/internal/models"
)

// fakeStore is an in-memory document store for tests.
type fakeStore struct {
	collections map[string][]docstore.Document
	createErr   error
	getErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: make(map[string][]docstore.Document)}
}

func (f *fakeStore) CreateDocument(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	if f.createErr != nil {
		return "", &docstore.PersistenceError{Op: "insert", Err: f.createErr}
	}

	stored := make(docstore.Document, len(doc))
	for k, v := range doc {
		stored[k] = v
	}
	id := fmt.Sprintf("doc-%d", len(f.collections[collection])+1)
	stored["_id"] = id
	stored["created_at"] = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	stored["updated_at"] = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	f.collections[collection] = append(f.collections[collection], stored)
	return id, nil
}

func (f *fakeStore) GetDocuments(ctx context.Context, collection string, filter docstore.Document, limit int64) ([]docstore.Document, error) {
	if f.getErr != nil {
		return nil, &docstore.PersistenceError{Op: "find", Err: f.getErr}
	}

	docs := f.collections[collection]
	if int64(len(docs)) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (f *fakeStore) Collections(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(f.collections))
	for name := range f.collections {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func (f *fakeStore) Close(ctx context.Context) error { return nil }

// fakePublisher records published order events.
type fakePublisher struct {
	messages []*models.OrderCreatedMessage
	err      error
}

func (f *fakePublisher) PublishOrderCreated(ctx context.Context, msg *models.OrderCreatedMessage) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func testOrder() *models.Order {
	return &models.Order{
		CustomerName:  "John Doe",
		Phone:         "9876543210",
		PaymentMethod: "cod",
		Items: []models.OrderItem{
			{Name: "Masala Dosa", Price: 100, Quantity: 2},
			{Name: "Filter Coffee", Price: 50, Quantity: 1},
		},
		Discount: 30,
		// Bogus client-supplied derived values, must be discarded.
		Subtotal: 1,
		Total:    5,
	}
}

func TestCreateOrder(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, nil, "fake", logger.New("test"))

	resp, err := service.CreateOrder(context.Background(), testOrder(), "req_test")
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}

	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
	if resp.OrderID == "" {
		t.Errorf("expected an order id")
	}

	docs := store.collections[ordersCollection]
	if len(docs) != 1 {
		t.Fatalf("expected 1 stored document, got %d", len(docs))
	}

	doc := docs[0]
	if doc["subtotal"] != 250.0 {
		t.Errorf("stored subtotal = %v, want 250", doc["subtotal"])
	}
	if doc["discount"] != 30.0 {
		t.Errorf("stored discount = %v, want 30", doc["discount"])
	}
	if doc["total"] != 220.0 {
		t.Errorf("stored total = %v, want 220", doc["total"])
	}
	if doc["customer_name"] != "John Doe" {
		t.Errorf("stored customer_name = %v", doc["customer_name"])
	}

	items, ok := doc["items"].([]docstore.Document)
	if !ok || len(items) != 2 {
		t.Fatalf("stored items = %v", doc["items"])
	}
	if items[0]["name"] != "Masala Dosa" || items[0]["quantity"] != 2 {
		t.Errorf("unexpected first item: %v", items[0])
	}
}

func TestCreateOrder_ValidationRejected(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, nil, "fake", logger.New("test"))

	order := testOrder()
	order.PaymentMethod = "cash"

	_, err := service.CreateOrder(context.Background(), order, "req_test")

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *models.ValidationError, got %v", err)
	}
	if verr.Kind != models.KindInvalidPaymentMethod {
		t.Errorf("kind = %s, want %s", verr.Kind, models.KindInvalidPaymentMethod)
	}
	if len(store.collections[ordersCollection]) != 0 {
		t.Errorf("rejected order must not be persisted")
	}
}

func TestCreateOrder_PersistenceError(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("connection refused")
	service := NewService(store, nil, "fake", logger.New("test"))

	_, err := service.CreateOrder(context.Background(), testOrder(), "req_test")

	var perr *docstore.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *docstore.PersistenceError, got %v", err)
	}
}

func TestCreateOrder_PublishesEvent(t *testing.T) {
	store := newFakeStore()
	publisher := &fakePublisher{}
	service := NewService(store, publisher, "fake", logger.New("test"))

	resp, err := service.CreateOrder(context.Background(), testOrder(), "req_test")
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}

	if len(publisher.messages) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.messages))
	}
	msg := publisher.messages[0]
	if msg.OrderID != resp.OrderID {
		t.Errorf("event order id = %s, want %s", msg.OrderID, resp.OrderID)
	}
	if msg.Total != 220 {
		t.Errorf("event total = %v, want 220", msg.Total)
	}
}

func TestCreateOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	store := newFakeStore()
	publisher := &fakePublisher{err: errors.New("broker down")}
	service := NewService(store, publisher, "fake", logger.New("test"))

	resp, err := service.CreateOrder(context.Background(), testOrder(), "req_test")
	if err != nil {
		t.Fatalf("publish failure must not fail the order, got %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
	if len(store.collections[ordersCollection]) != 1 {
		t.Errorf("order must still be persisted")
	}
}

func TestListOrders_Limit(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, nil, "fake", logger.New("test"))

	for i := 0; i < 5; i++ {
		if _, err := service.CreateOrder(context.Background(), testOrder(), "req_test"); err != nil {
			t.Fatalf("CreateOrder returned error: %v", err)
		}
	}

	docs, err := service.ListOrders(context.Background(), 2, "req_test")
	if err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(docs))
	}

	for i, doc := range docs {
		if _, ok := doc["_id"].(string); !ok {
			t.Errorf("record %d: _id is %T, want string", i, doc["_id"])
		}
		if _, ok := doc["created_at"].(string); !ok {
			t.Errorf("record %d: created_at is %T, want string", i, doc["created_at"])
		}
		if _, ok := doc["updated_at"].(string); !ok {
			t.Errorf("record %d: updated_at is %T, want string", i, doc["updated_at"])
		}
	}
}

func TestListOrders_DefaultLimit(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, nil, "fake", logger.New("test"))

	if _, err := service.ListOrders(context.Background(), 0, "req_test"); err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	// The fake returns everything under the limit; just assert the default
	// is applied instead of zero by listing after 1 insert.
	if _, err := service.CreateOrder(context.Background(), testOrder(), "req_test"); err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	docs, err := service.ListOrders(context.Background(), 0, "req_test")
	if err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 record under default limit, got %d", len(docs))
	}
}

func TestListOrders_RendersMongoNativeTypes(t *testing.T) {
	store := newFakeStore()
	oid := primitive.NewObjectID()
	store.collections[ordersCollection] = []docstore.Document{
		{
			"_id":           oid,
			"customer_name": "Jane Roe",
			"created_at":    primitive.NewDateTimeFromTime(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		},
	}
	service := NewService(store, nil, "fake", logger.New("test"))

	docs, err := service.ListOrders(context.Background(), 10, "req_test")
	if err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(docs))
	}

	if got := docs[0]["_id"]; got != oid.Hex() {
		t.Errorf("_id = %v, want %s", got, oid.Hex())
	}
	if got := docs[0]["created_at"]; got != "2024-06-01T12:00:00Z" {
		t.Errorf("created_at = %v, want 2024-06-01T12:00:00Z", got)
	}
}

func TestListOrders_PersistenceError(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection reset")
	service := NewService(store, nil, "fake", logger.New("test"))

	_, err := service.ListOrders(context.Background(), 10, "req_test")

	var perr *docstore.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *docstore.PersistenceError, got %v", err)
	}
}
