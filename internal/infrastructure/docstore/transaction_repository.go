package docstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"horizon/internal/domain/document"
	"horizon/internal/domain/transaction"
	"horizon/internal/shared/apperrors"
)

// Amounts are stored as decimal strings so no backend rounds them.
type transactionDoc struct {
	ID             string `mapstructure:"$id"`
	Name           string `mapstructure:"name"`
	Amount         string `mapstructure:"amount"`
	Channel        string `mapstructure:"channel"`
	Category       string `mapstructure:"category"`
	Kind           string `mapstructure:"transactionType"`
	Status         string `mapstructure:"status"`
	UserID         string `mapstructure:"userId,omitempty"`
	BankID         string `mapstructure:"bankId,omitempty"`
	SenderID       string `mapstructure:"senderId,omitempty"`
	SenderBankID   string `mapstructure:"senderBankId,omitempty"`
	ReceiverID     string `mapstructure:"receiverId,omitempty"`
	ReceiverBankID string `mapstructure:"receiverBankId,omitempty"`
	Email          string `mapstructure:"email,omitempty"`
	TransferURL    string `mapstructure:"transferUrl,omitempty"`
}

type TransactionRepository struct {
	store      document.Store
	collection string
}

var _ transaction.Repository = (*TransactionRepository)(nil)

func NewTransactionRepository(store document.Store, collection string) *TransactionRepository {
	return &TransactionRepository{store: store, collection: collection}
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Record, error) {
	if err := params.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "transactions.create", err)
	}

	fields, err := document.Encode(transactionDoc{
		Name:           params.Name,
		Amount:         params.Amount.String(),
		Channel:        params.Channel,
		Category:       params.Category,
		Kind:           params.Kind,
		Status:         params.Status,
		UserID:         params.UserID,
		BankID:         params.BankID,
		SenderID:       params.SenderID,
		SenderBankID:   params.SenderBankID,
		ReceiverID:     params.ReceiverID,
		ReceiverBankID: params.ReceiverBankID,
		Email:          params.Email,
		TransferURL:    params.TransferURL,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "transactions.create", err)
	}

	doc, err := r.store.Create(ctx, r.collection, "", fields)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "transactions.create", err)
	}
	return toRecord(doc)
}

func (r *TransactionRepository) ListByBankID(ctx context.Context, bankID string) ([]*transaction.Record, error) {
	sent, err := r.store.List(ctx, r.collection, document.Eq("senderBankId", bankID))
	if err != nil {
		return nil, fmt.Errorf("transactions.list_sent: %w", err)
	}
	received, err := r.store.List(ctx, r.collection, document.Eq("receiverBankId", bankID))
	if err != nil {
		return nil, fmt.Errorf("transactions.list_received: %w", err)
	}

	seen := make(map[string]struct{}, len(sent)+len(received))
	records := make([]*transaction.Record, 0, len(sent)+len(received))
	for _, doc := range append(sent, received...) {
		if _, dup := seen[doc.ID]; dup {
			continue
		}
		seen[doc.ID] = struct{}{}

		rec, err := toRecord(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func toRecord(doc *document.Document) (*transaction.Record, error) {
	var d transactionDoc
	if err := doc.Decode(&d); err != nil {
		return nil, err
	}

	amount := decimal.Zero
	if d.Amount != "" {
		var err error
		if amount, err = decimal.NewFromString(d.Amount); err != nil {
			return nil, fmt.Errorf("invalid amount on transaction %s: %w", doc.ID, err)
		}
	}

	return &transaction.Record{
		ID:             d.ID,
		Name:           d.Name,
		Amount:         amount,
		Channel:        d.Channel,
		Category:       d.Category,
		Kind:           d.Kind,
		Status:         d.Status,
		UserID:         d.UserID,
		BankID:         d.BankID,
		SenderID:       d.SenderID,
		SenderBankID:   d.SenderBankID,
		ReceiverID:     d.ReceiverID,
		ReceiverBankID: d.ReceiverBankID,
		Email:          d.Email,
		TransferURL:    d.TransferURL,
		CreatedAt:      doc.CreatedAt,
	}, nil
}
