package docstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bits-and-bites/internal/database"
	"bits-and-bites/internal/logger"
)

// PostgresStore implements Store on a PostgreSQL documents table. Documents
// are kept as JSONB rows; id, created_at and updated_at live in dedicated
// columns and are folded back into the document on read.
type PostgresStore struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPostgresStore wraps an existing database connection.
func NewPostgresStore(db *database.DB, log *logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log,
	}
}

// CreateDocument inserts a document and returns its generated UUID.
// created_at and updated_at are assigned by the table defaults.
func (s *PostgresStore) CreateDocument(ctx context.Context, collection string, doc Document) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", &PersistenceError{Op: "insert", Err: err}
	}

	id := uuid.NewString()
	if err := s.db.Exec(ctx, database.InsertDocumentSQL, id, collection, body); err != nil {
		return "", &PersistenceError{Op: "insert", Err: err}
	}

	return id, nil
}

// GetDocuments fetches up to limit documents in insertion order. A non-empty
// filter is applied as JSONB containment.
func (s *PostgresStore) GetDocuments(ctx context.Context, collection string, filter Document, limit int64) ([]Document, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if len(filter) > 0 {
		body, merr := json.Marshal(filter)
		if merr != nil {
			return nil, &PersistenceError{Op: "select", Err: merr}
		}
		rows, err = s.db.Query(ctx, database.SelectDocumentsFilteredSQL, collection, body, limit)
	} else {
		rows, err = s.db.Query(ctx, database.SelectDocumentsSQL, collection, limit)
	}
	if err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id        string
			body      []byte
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&id, &body, &createdAt, &updatedAt); err != nil {
			return nil, &PersistenceError{Op: "select", Err: err}
		}

		doc := Document{}
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, &PersistenceError{Op: "select", Err: err}
		}
		doc["_id"] = id
		doc["created_at"] = createdAt
		doc["updated_at"] = updatedAt

		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}

	return docs, nil
}

// Collections lists the distinct collection names in the documents table.
func (s *PostgresStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, database.SelectCollectionsSQL)
	if err != nil {
		return nil, &PersistenceError{Op: "list_collections", Err: err}
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &PersistenceError{Op: "list_collections", Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list_collections", Err: err}
	}

	return names, nil
}

// Ping verifies the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close(ctx context.Context) error {
	s.db.Close()
	return nil
}
