package bank

import "context"

// Repository defines the interface for bank link data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Bank, error)

	// GetByID returns apperrors.ErrNotFound when no record matches.
	GetByID(ctx context.Context, id string) (*Bank, error)

	// ListByUserID returns the user's banks in creation order.
	ListByUserID(ctx context.Context, userID string) ([]*Bank, error)

	// GetByAccountID resolves the bank owning an aggregator account id.
	// It returns ErrAmbiguousAccount when more than one bank holds it.
	GetByAccountID(ctx context.Context, accountID string) (*Bank, error)
}
