package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"horizon/internal/domain/document"
	"horizon/internal/shared/apperrors"
)

const uniqueViolation = "23505"

const documentsSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		seq        BIGSERIAL,
		collection TEXT        NOT NULL,
		id         TEXT        NOT NULL,
		fields     JSONB       NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (collection, id)
	);
	CREATE INDEX IF NOT EXISTS documents_fields_idx ON documents USING GIN (fields);
`

// DocumentStore keeps every collection in one JSONB table.
type DocumentStore struct {
	db *DB
}

var _ document.Store = (*DocumentStore)(nil)

func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// EnsureSchema creates the documents table if it does not exist.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, documentsSchema); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

func (s *DocumentStore) Create(ctx context.Context, collection, id string, fields map[string]any) (*document.Document, error) {
	if id == "" {
		id = document.NewID()
	}
	if fields == nil {
		fields = map[string]any{}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "postgres.create", err)
	}

	query := `
		INSERT INTO documents (collection, id, fields)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	var createdAt time.Time
	err = s.db.QueryRowContext(ctx, query, collection, id, raw).Scan(&createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperrors.Wrap(apperrors.ErrAlreadyExists, "postgres.create", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "postgres.create", err)
	}

	return &document.Document{ID: id, CreatedAt: createdAt.UTC(), Fields: fields}, nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*document.Document, error) {
	query := `
		SELECT id, fields, created_at
		FROM documents
		WHERE collection = $1 AND id = $2
	`

	var (
		docID     string
		raw       []byte
		createdAt time.Time
	)
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&docID, &raw, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "postgres.get", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return newDocument(docID, raw, createdAt)
}

// List compares filters against the JSON text of each field, so numbers
// and booleans match their string form.
func (s *DocumentStore) List(ctx context.Context, collection string, filters ...document.Filter) ([]*document.Document, error) {
	query, args := listQuery(collection, filters)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		var (
			id        string
			raw       []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &raw, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc, err := newDocument(id, raw, createdAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

func listQuery(collection string, filters []document.Filter) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT id, fields, created_at FROM documents WHERE collection = $1")

	args := []any{collection}
	for _, f := range filters {
		args = append(args, f.Field, fmt.Sprint(f.Value))
		fmt.Fprintf(&b, " AND fields ->> $%d = $%d", len(args)-1, len(args))
	}
	b.WriteString(" ORDER BY created_at ASC, seq ASC")

	return b.String(), args
}

func newDocument(id string, raw []byte, createdAt time.Time) (*document.Document, error) {
	fields := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
	}
	return &document.Document{ID: id, CreatedAt: createdAt.UTC(), Fields: fields}, nil
}
