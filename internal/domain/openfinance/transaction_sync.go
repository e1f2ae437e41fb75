package openfinance

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"horizon/internal/domain/transaction"
	"horizon/internal/infrastructure/plaid"
	"horizon/internal/shared/apperrors"
)

// DefaultMaxPages bounds a sync when no cap is configured.
const DefaultMaxPages = 100

var syncTracer = otel.Tracer("horizon/openfinance")

// SyncResult is the outcome of one complete sync.
type SyncResult struct {
	Added      []transaction.Transaction
	NextCursor string
	Pages      int
}

// TransactionSyncer pages through the aggregator's transaction feed for
// one credential.
type TransactionSyncer struct {
	client   plaid.ClientInterface
	maxPages int
	pageSize int
	logger   *zap.Logger
}

// NewTransactionSyncer creates a syncer. maxPages <= 0 falls back to
// DefaultMaxPages; pageSize <= 0 leaves the page size to the remote.
func NewTransactionSyncer(client plaid.ClientInterface, maxPages, pageSize int, logger *zap.Logger) *TransactionSyncer {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if pageSize < 0 {
		pageSize = 0
	}
	return &TransactionSyncer{
		client:   client,
		maxPages: maxPages,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Sync fetches every added transaction from the start of history.
// Pages are appended in order and each request carries the cursor from
// the previous response. Any failure discards what was accumulated.
func (s *TransactionSyncer) Sync(ctx context.Context, accessToken string) (*SyncResult, error) {
	ctx, span := syncTracer.Start(ctx, "transactions.sync")
	defer span.End()

	var (
		added  []transaction.Transaction
		cursor string
	)

	for page := 1; page <= s.maxPages; page++ {
		resp, err := s.client.TransactionsSync(ctx, plaid.TransactionsSyncRequest{
			AccessToken: accessToken,
			Cursor:      cursor,
			Count:       s.pageSize,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "remote sync failed")
			s.logger.Warn("transaction sync page failed", zap.Int("page", page), zap.Error(err))
			return nil, apperrors.Wrap(apperrors.ErrRemoteFetchFailed, "transactions.sync", err)
		}

		for i := range resp.Added {
			tx, err := FromRemote(&resp.Added[i])
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "malformed remote transaction")
				return nil, apperrors.Wrap(apperrors.ErrRemoteFetchFailed, "transactions.sync", err)
			}
			added = append(added, tx)
		}
		cursor = resp.NextCursor

		s.logger.Debug("transaction sync page",
			zap.Int("page", page),
			zap.Int("added", len(resp.Added)),
			zap.Bool("has_more", resp.HasMore),
		)

		if !resp.HasMore {
			span.SetAttributes(
				attribute.Int("sync.pages", page),
				attribute.Int("sync.added", len(added)),
			)
			return &SyncResult{Added: added, NextCursor: cursor, Pages: page}, nil
		}
	}

	span.SetStatus(codes.Error, "page cap reached")
	s.logger.Warn("transaction sync hit page cap", zap.Int("max_pages", s.maxPages))
	return nil, apperrors.Wrap(apperrors.ErrSyncIncomplete, "transactions.sync",
		fmt.Errorf("remote still has more after %d pages", s.maxPages))
}

// FromRemote maps an aggregator transaction to the local view. The
// payment channel doubles as the transaction type.
func FromRemote(t *plaid.Transaction) (transaction.Transaction, error) {
	date, err := time.Parse(time.DateOnly, t.Date)
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("transaction %s has invalid date %q: %w", t.TransactionID, t.Date, err)
	}

	return transaction.Transaction{
		ID:             t.TransactionID,
		Name:           t.Name,
		Amount:         t.Amount,
		Date:           date,
		PaymentChannel: t.PaymentChannel,
		Category:       t.PrimaryCategory(),
		Type:           t.PaymentChannel,
		AccountID:      t.AccountID,
		Pending:        t.Pending,
		Image:          t.LogoURL,
	}, nil
}
