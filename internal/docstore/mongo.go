package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bits-and-bites/internal/config"
	"bits-and-bites/internal/logger"
)

// MongoStore implements Store on top of a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger *logger.Logger
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoDB.URI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(cfg.MongoDB.Database),
		logger: log,
	}, nil
}

// CreateDocument inserts a document, stamping created_at and updated_at.
// The returned id is the hex form of the generated ObjectID.
func (s *MongoStore) CreateDocument(ctx context.Context, collection string, doc Document) (string, error) {
	now := time.Now().UTC()
	doc["created_at"] = now
	doc["updated_at"] = now

	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", &PersistenceError{Op: "insert", Err: err}
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", &PersistenceError{Op: "insert", Err: fmt.Errorf("unexpected inserted id type %T", res.InsertedID)}
	}

	return oid.Hex(), nil
}

// GetDocuments fetches up to limit documents in natural (insertion) order.
func (s *MongoStore) GetDocuments(ctx context.Context, collection string, filter Document, limit int64) ([]Document, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}

	opts := options.Find().SetLimit(limit)
	cursor, err := s.db.Collection(collection).Find(ctx, query, opts)
	if err != nil {
		return nil, &PersistenceError{Op: "find", Err: err}
	}
	defer cursor.Close(ctx)

	var docs []Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, &PersistenceError{Op: "find", Err: err}
	}

	return docs, nil
}

// Collections lists the collection names in the database.
func (s *MongoStore) Collections(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, &PersistenceError{Op: "list_collections", Err: err}
	}
	return names, nil
}

// Ping verifies the MongoDB connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the MongoDB client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
