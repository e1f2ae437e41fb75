package document

import (
	"context"
)

// Store is the document database capability. Collections are created on
// first write.
type Store interface {
	// Create writes a new document. An empty id asks the store to assign one.
	// Returns apperrors.ErrAlreadyExists when the id is taken.
	Create(ctx context.Context, collection, id string, fields map[string]any) (*Document, error)
	// Get returns apperrors.ErrNotFound when the document is absent.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// List returns documents matching every filter, oldest first.
	List(ctx context.Context, collection string, filters ...Filter) ([]*Document, error)
}
