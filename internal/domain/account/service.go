package account

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/openfinance"
	"horizon/internal/domain/transaction"
	"horizon/internal/infrastructure/plaid"
	"horizon/internal/shared/apperrors"
)

// DefaultCountryCodes scopes institution lookups.
var DefaultCountryCodes = []string{"US"}

// Syncer fetches the live transaction feed for one credential.
type Syncer interface {
	Sync(ctx context.Context, accessToken string) (*openfinance.SyncResult, error)
}

// Service assembles account views from bank records, the aggregator and
// locally recorded transfers.
type Service struct {
	banks        bank.Repository
	transactions transaction.Repository
	aggregator   plaid.ClientInterface
	syncer       Syncer
	countryCodes []string
	logger       *zap.Logger
}

// NewService creates a new account service
func NewService(
	banks bank.Repository,
	transactions transaction.Repository,
	aggregator plaid.ClientInterface,
	syncer Syncer,
	countryCodes []string,
	logger *zap.Logger,
) *Service {
	if len(countryCodes) == 0 {
		countryCodes = DefaultCountryCodes
	}
	return &Service{
		banks:        banks,
		transactions: transactions,
		aggregator:   aggregator,
		syncer:       syncer,
		countryCodes: countryCodes,
		logger:       logger,
	}
}

// ListAccounts fetches every linked account of a user concurrently.
// A bank whose remote fetch fails is left out of the result and logged;
// the order of the rest follows the bank records.
func (s *Service) ListAccounts(ctx context.Context, userID string) (*Summary, error) {
	if userID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "accounts.list", errors.New("user ID is required"))
	}

	banks, err := s.banks.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("accounts.list: %w", err)
	}

	slots := make([]*Account, len(banks))
	var g errgroup.Group
	for i, b := range banks {
		if !b.HasCredential() {
			s.logger.Warn("skipping bank without credential",
				zap.String("user_id", userID),
				zap.String("bank_id", b.ID),
			)
			continue
		}

		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("accounts.list: bank %s: panic: %v", b.ID, r)
				}
			}()

			acc, fetchErr := s.fetchAccount(ctx, b)
			if fetchErr != nil {
				s.logger.Warn("skipping bank after remote failure",
					zap.String("user_id", userID),
					zap.String("bank_id", b.ID),
					zap.Error(fetchErr),
				)
				return nil
			}
			slots[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	accounts := make([]*Account, 0, len(slots))
	for _, acc := range slots {
		if acc != nil {
			accounts = append(accounts, acc)
		}
	}

	return &Summary{
		Data:                accounts,
		TotalBanks:          len(accounts),
		TotalCurrentBalance: sumCurrent(accounts),
	}, nil
}

// GetAccount returns one account and its transactions, newest first.
func (s *Service) GetAccount(ctx context.Context, bankID string) (*Detail, error) {
	b, err := s.getBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, b)
}

// GetAccountForUser is GetAccount for a bank owned by userID. Banks of
// other users are reported as not found.
func (s *Service) GetAccountForUser(ctx context.Context, userID, bankID string) (*Detail, error) {
	b, err := s.getBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "accounts.get", nil)
	}
	return s.detail(ctx, b)
}

// GetInstitution looks up institution metadata for display.
func (s *Service) GetInstitution(ctx context.Context, institutionID string) (*plaid.Institution, error) {
	inst, err := s.aggregator.InstitutionsGetByID(ctx, institutionID, s.countryCodes)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteFetchFailed, "institutions.get", err)
	}
	return inst, nil
}

func (s *Service) getBank(ctx context.Context, bankID string) (*bank.Bank, error) {
	if bankID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "accounts.get", errors.New("bank ID is required"))
	}

	b, err := s.banks.GetByID(ctx, bankID)
	if err != nil {
		return nil, fmt.Errorf("accounts.get: %w", err)
	}
	if !b.HasCredential() {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "accounts.get", errors.New("bank has no stored credential"))
	}
	return b, nil
}

func (s *Service) detail(ctx context.Context, b *bank.Bank) (*Detail, error) {
	acc, err := s.fetchAccount(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("accounts.get: %w", err)
	}

	records, err := s.transactions.ListByBankID(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("accounts.get: %w", err)
	}

	synced, err := s.syncer.Sync(ctx, b.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("accounts.get: %w", err)
	}

	txs := make([]transaction.Transaction, 0, len(records)+len(synced.Added))
	for _, r := range records {
		txs = append(txs, transaction.FromTransfer(r, b.ID))
	}
	for _, tx := range synced.Added {
		if tx.AccountID != "" && tx.AccountID != acc.ID {
			continue
		}
		txs = append(txs, tx)
	}
	transaction.SortNewestFirst(txs)

	return &Detail{Data: acc, Transactions: txs}, nil
}

// fetchAccount reads the bank's account snapshot and decorates it with
// institution metadata.
func (s *Service) fetchAccount(ctx context.Context, b *bank.Bank) (*Account, error) {
	resp, err := s.aggregator.AccountsGet(ctx, b.AccessToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteFetchFailed, "accounts.fetch", err)
	}
	if len(resp.Accounts) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrNoAccountsLinked, "accounts.fetch", nil)
	}

	inst, err := s.GetInstitution(ctx, resp.Item.InstitutionID)
	if err != nil {
		return nil, err
	}

	return newAccount(b, canonicalAccount(b, resp.Accounts), inst), nil
}
