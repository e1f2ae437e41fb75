package transaction

import (
	"context"
)

// Repository defines the interface for locally recorded transactions
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Record, error)
	// ListByBankID returns transfers where the bank is sender or receiver,
	// each record once, oldest first.
	ListByBankID(ctx context.Context, bankID string) ([]*Record, error)
}
