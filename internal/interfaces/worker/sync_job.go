package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/openfinance"
)

// Syncer pages a bank's transaction feed.
type Syncer interface {
	Sync(ctx context.Context, accessToken string) (*openfinance.SyncResult, error)
}

// SyncReport is the outcome of one bank sync.
type SyncReport struct {
	BankID       string
	UserID       string
	Transactions int
	Pages        int
	NextCursor   string
	Err          error
}

// BankSyncJob runs a full transaction sync for one linked bank and hands
// the outcome to report. report is called exactly once, from the worker
// goroutine.
type BankSyncJob struct {
	bank   *bank.Bank
	syncer Syncer
	report func(SyncReport)
	logger *zap.Logger
}

func NewBankSyncJob(b *bank.Bank, syncer Syncer, report func(SyncReport), logger *zap.Logger) *BankSyncJob {
	return &BankSyncJob{bank: b, syncer: syncer, report: report, logger: logger}
}

func (j *BankSyncJob) Execute(ctx context.Context) error {
	r := SyncReport{BankID: j.bank.ID, UserID: j.bank.UserID}
	defer func() {
		if j.report != nil {
			j.report(r)
		}
	}()

	if !j.bank.HasCredential() {
		r.Err = fmt.Errorf("bank %s has no credential", j.bank.ID)
		return r.Err
	}

	result, err := j.syncer.Sync(ctx, j.bank.AccessToken)
	if err != nil {
		r.Err = fmt.Errorf("sync failed: %w", err)
		return r.Err
	}

	r.Transactions = len(result.Added)
	r.Pages = result.Pages
	r.NextCursor = result.NextCursor
	j.logger.Debug("bank synced",
		zap.String("bank_id", j.bank.ID),
		zap.Int("transactions", r.Transactions),
		zap.Int("pages", r.Pages),
	)
	return nil
}

func (j *BankSyncJob) UserID() string {
	return j.bank.UserID
}

func (j *BankSyncJob) Description() string {
	return fmt.Sprintf("transaction sync for bank %s", j.bank.ID)
}
