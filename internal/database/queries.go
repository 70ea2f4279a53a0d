package database

// Document store queries
const (
	InsertDocumentSQL = `
		INSERT INTO documents (id, collection, doc)
		VALUES ($1, $2, $3)`

	SelectDocumentsSQL = `
		SELECT id, doc, created_at, updated_at
		FROM documents
		WHERE collection = $1
		ORDER BY created_at ASC
		LIMIT $2`

	SelectDocumentsFilteredSQL = `
		SELECT id, doc, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND doc @> $2
		ORDER BY created_at ASC
		LIMIT $3`

	SelectCollectionsSQL = `
		SELECT DISTINCT collection FROM documents ORDER BY collection`
)
