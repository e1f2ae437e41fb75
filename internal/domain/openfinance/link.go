package openfinance

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/transaction"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/dwolla"
	"horizon/internal/infrastructure/plaid"
	"horizon/internal/shared/apperrors"
)

// PaymentsProcessor is the processor name used when minting processor tokens.
const PaymentsProcessor = "dwolla"

// LinkOptions describes the link session shown to the user.
type LinkOptions struct {
	ClientName   string
	Language     string
	Products     []string
	CountryCodes []string
}

// LinkService connects a user's bank through the aggregator and registers
// it as a funding source with the payments processor.
type LinkService struct {
	aggregator   plaid.ClientInterface
	payments     dwolla.ClientInterface
	banks        bank.Repository
	transactions transaction.Repository
	opts         LinkOptions
	logger       *zap.Logger
}

func NewLinkService(
	aggregator plaid.ClientInterface,
	payments dwolla.ClientInterface,
	banks bank.Repository,
	transactions transaction.Repository,
	opts LinkOptions,
	logger *zap.Logger,
) *LinkService {
	if opts.Language == "" {
		opts.Language = "en"
	}
	return &LinkService{
		aggregator:   aggregator,
		payments:     payments,
		banks:        banks,
		transactions: transactions,
		opts:         opts,
		logger:       logger,
	}
}

// CreateLinkToken starts a link session for u.
func (s *LinkService) CreateLinkToken(ctx context.Context, u *user.User) (string, error) {
	resp, err := s.aggregator.LinkTokenCreate(ctx, plaid.LinkTokenCreateRequest{
		ClientName:   s.clientName(u),
		Language:     s.opts.Language,
		CountryCodes: s.opts.CountryCodes,
		Products:     s.opts.Products,
		User:         plaid.LinkUser{ClientUserID: u.UserID},
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrRemoteFetchFailed, "link.create_token", err)
	}
	return resp.LinkToken, nil
}

func (s *LinkService) clientName(u *user.User) string {
	if name := u.FullName(); name != "" {
		return name
	}
	return s.opts.ClientName
}

// ExchangePublicToken runs the link pipeline. Each step needs the
// previous one's output and the first failure stops the pipeline.
// Remote resources created before a failure are not cleaned up; they
// are logged as orphaned.
func (s *LinkService) ExchangePublicToken(ctx context.Context, publicToken string, u *user.User) (*bank.Bank, error) {
	if publicToken == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "link.exchange", errors.New("public token is required"))
	}

	exchange, err := s.aggregator.ItemPublicTokenExchange(ctx, publicToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteFetchFailed, "link.exchange", err)
	}

	accounts, err := s.aggregator.AccountsGet(ctx, exchange.AccessToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteFetchFailed, "link.accounts", err)
	}
	if len(accounts.Accounts) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrNoAccountsLinked, "link.accounts", nil)
	}

	// One bank link maps to exactly one account: the first one returned.
	account := accounts.Accounts[0]
	if len(accounts.Accounts) > 1 {
		s.logger.Info("item returned several accounts, linking the first",
			zap.String("user_id", u.UserID),
			zap.String("item_id", exchange.ItemID),
			zap.Int("accounts", len(accounts.Accounts)),
		)
	}

	if err := s.ensureNotLinked(ctx, account.AccountID); err != nil {
		return nil, err
	}

	processorToken, err := s.aggregator.ProcessorTokenCreate(ctx, exchange.AccessToken, account.AccountID, PaymentsProcessor)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteFetchFailed, "link.processor_token", err)
	}

	fundingSourceURL, err := s.payments.AddFundingSource(ctx, u.DwollaCustomerID, processorToken, account.Name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFundingSourceCreationFailed, "link.funding_source", err)
	}
	if fundingSourceURL == "" {
		return nil, apperrors.Wrap(apperrors.ErrFundingSourceCreationFailed, "link.funding_source",
			errors.New("processor returned no funding source"))
	}

	b, err := s.banks.Create(ctx, bank.CreateParams{
		UserID:           u.UserID,
		BankID:           exchange.ItemID,
		AccountID:        account.AccountID,
		AccessToken:      exchange.AccessToken,
		FundingSourceURL: fundingSourceURL,
		ShareableID:      crypto.EncodeShareableID(account.AccountID),
	})
	if err != nil {
		s.logger.Warn("funding source orphaned: bank record not persisted",
			zap.String("user_id", u.UserID),
			zap.String("item_id", exchange.ItemID),
			zap.String("funding_source_url", fundingSourceURL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("link.persist_bank: %w", err)
	}

	if _, err := s.transactions.Create(ctx, transaction.NewLinkEvent(u.UserID, b.ID)); err != nil {
		s.logger.Warn("bank linked without link event",
			zap.String("user_id", u.UserID),
			zap.String("bank_id", b.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("link.persist_event: %w", err)
	}

	s.logger.Info("bank linked",
		zap.String("user_id", u.UserID),
		zap.String("bank_id", b.ID),
		zap.String("item_id", exchange.ItemID),
	)
	return b, nil
}

// ensureNotLinked keeps account ids unique across bank records so a
// shareable id always resolves to one bank.
func (s *LinkService) ensureNotLinked(ctx context.Context, accountID string) error {
	_, err := s.banks.GetByAccountID(ctx, accountID)
	switch {
	case err == nil:
		return apperrors.Wrap(apperrors.ErrAlreadyExists, "link.accounts", errors.New("account is already linked"))
	case errors.Is(err, bank.ErrAmbiguousAccount):
		return apperrors.Wrap(apperrors.ErrAlreadyExists, "link.accounts", err)
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("link.accounts: %w", err)
	}
}
