package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a schemaless record as stored by a backend.
type Document = map[string]interface{}

// Store is the document-storage collaborator. Backends assign the document
// identifier and the created_at/updated_at timestamps on insert.
type Store interface {
	// CreateDocument inserts one document and returns its generated id.
	CreateDocument(ctx context.Context, collection string, doc Document) (string, error)
	// GetDocuments returns up to limit documents from the collection. A nil
	// or empty filter matches everything; ordering is backend-defined.
	GetDocuments(ctx context.Context, collection string, filter Document, limit int64) ([]Document, error)
	// Collections lists the known collection names, for diagnostics.
	Collections(ctx context.Context) ([]string, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend connection.
	Close(ctx context.Context) error
}

// PersistenceError wraps a storage backend failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// RenderStrings converts backend-native identifier and timestamp values in
// a document to plain strings, so they never leak into API responses.
func RenderStrings(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	if id, ok := out["_id"]; ok {
		out["_id"] = renderID(id)
	}
	for _, key := range []string{"created_at", "updated_at"} {
		if v, ok := out[key]; ok {
			out[key] = renderTimestamp(v)
		}
	}
	return out
}

func renderID(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprintf("%v", id)
	}
}

func renderTimestamp(v interface{}) string {
	switch ts := v.(type) {
	case primitive.DateTime:
		return ts.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return ts.UTC().Format(time.RFC3339)
	case string:
		return ts
	default:
		return fmt.Sprintf("%v", ts)
	}
}
