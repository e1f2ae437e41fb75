// Package docstore implements the domain repositories on top of a
// document.Store.
package docstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/document"
	"horizon/internal/shared/apperrors"
)

// TokenCipher seals credentials before they reach the store.
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type bankDoc struct {
	ID               string `mapstructure:"$id"`
	UserID           string `mapstructure:"userId"`
	BankID           string `mapstructure:"bankId"`
	AccountID        string `mapstructure:"accountId"`
	AccessToken      string `mapstructure:"accessToken"`
	FundingSourceURL string `mapstructure:"fundingSourceUrl"`
	ShareableID      string `mapstructure:"shareableId"`
}

type BankRepository struct {
	store      document.Store
	collection string
	cipher     TokenCipher
	logger     *zap.Logger
}

var _ bank.Repository = (*BankRepository)(nil)

func NewBankRepository(store document.Store, collection string, cipher TokenCipher, logger *zap.Logger) *BankRepository {
	return &BankRepository{store: store, collection: collection, cipher: cipher, logger: logger}
}

func (r *BankRepository) Create(ctx context.Context, params bank.CreateParams) (*bank.Bank, error) {
	if err := params.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "banks.create", err)
	}

	sealed, err := r.cipher.Encrypt(params.AccessToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "banks.create", err)
	}

	fields, err := document.Encode(bankDoc{
		UserID:           params.UserID,
		BankID:           params.BankID,
		AccountID:        params.AccountID,
		AccessToken:      sealed,
		FundingSourceURL: params.FundingSourceURL,
		ShareableID:      params.ShareableID,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "banks.create", err)
	}

	doc, err := r.store.Create(ctx, r.collection, "", fields)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "banks.create", err)
	}

	return &bank.Bank{
		ID:               doc.ID,
		UserID:           params.UserID,
		BankID:           params.BankID,
		AccountID:        params.AccountID,
		AccessToken:      params.AccessToken,
		FundingSourceURL: params.FundingSourceURL,
		ShareableID:      params.ShareableID,
		CreatedAt:        doc.CreatedAt,
	}, nil
}

func (r *BankRepository) GetByID(ctx context.Context, id string) (*bank.Bank, error) {
	doc, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		return nil, fmt.Errorf("banks.get %s: %w", id, err)
	}
	return r.toBank(doc)
}

// ListByUserID skips records that cannot be decoded or decrypted, such as
// tokens sealed under a rotated key. Each skip is logged at Warn.
func (r *BankRepository) ListByUserID(ctx context.Context, userID string) ([]*bank.Bank, error) {
	docs, err := r.store.List(ctx, r.collection, document.Eq("userId", userID))
	if err != nil {
		return nil, fmt.Errorf("banks.list: %w", err)
	}

	banks := make([]*bank.Bank, 0, len(docs))
	for _, doc := range docs {
		b, err := r.toBank(doc)
		if err != nil {
			r.logger.Warn("skipping unreadable bank record",
				zap.String("user_id", userID),
				zap.String("bank_id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		banks = append(banks, b)
	}
	return banks, nil
}

// GetByAccountID requires exactly one match. Several matches return
// bank.ErrAmbiguousAccount.
func (r *BankRepository) GetByAccountID(ctx context.Context, accountID string) (*bank.Bank, error) {
	docs, err := r.store.List(ctx, r.collection, document.Eq("accountId", accountID))
	if err != nil {
		return nil, fmt.Errorf("banks.get_by_account: %w", err)
	}
	switch len(docs) {
	case 0:
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "banks.get_by_account", nil)
	case 1:
		return r.toBank(docs[0])
	default:
		return nil, fmt.Errorf("banks.get_by_account %s (%d records): %w", accountID, len(docs), bank.ErrAmbiguousAccount)
	}
}

func (r *BankRepository) toBank(doc *document.Document) (*bank.Bank, error) {
	var d bankDoc
	if err := doc.Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode bank %s: %w", doc.ID, err)
	}

	token, err := r.cipher.Decrypt(d.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token for bank %s: %w", doc.ID, err)
	}

	return &bank.Bank{
		ID:               d.ID,
		UserID:           d.UserID,
		BankID:           d.BankID,
		AccountID:        d.AccountID,
		AccessToken:      token,
		FundingSourceURL: d.FundingSourceURL,
		ShareableID:      d.ShareableID,
		CreatedAt:        doc.CreatedAt,
	}, nil
}
