package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"horizon/internal/domain/bank"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/dwolla"
	"horizon/internal/shared/apperrors"
)

type MockBankRepo struct {
	banks map[string]*bank.Bank
}

func (m *MockBankRepo) Create(ctx context.Context, params bank.CreateParams) (*bank.Bank, error) {
	return nil, errors.New("not implemented")
}

func (m *MockBankRepo) GetByID(ctx context.Context, id string) (*bank.Bank, error) {
	if b, ok := m.banks[id]; ok {
		return b, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *MockBankRepo) ListByUserID(ctx context.Context, userID string) ([]*bank.Bank, error) {
	return nil, nil
}

func (m *MockBankRepo) GetByAccountID(ctx context.Context, accountID string) (*bank.Bank, error) {
	var found []*bank.Bank
	for _, b := range m.banks {
		if b.AccountID == accountID {
			found = append(found, b)
		}
	}
	switch len(found) {
	case 0:
		return nil, apperrors.ErrNotFound
	case 1:
		return found[0], nil
	default:
		return nil, bank.ErrAmbiguousAccount
	}
}

type MockRepo struct {
	CreateFunc func(ctx context.Context, params CreateParams) (*Record, error)
	created    []CreateParams
}

func (m *MockRepo) Create(ctx context.Context, params CreateParams) (*Record, error) {
	m.created = append(m.created, params)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &Record{ID: "rec-1", Name: params.Name, Amount: params.Amount, SenderBankID: params.SenderBankID, ReceiverBankID: params.ReceiverBankID}, nil
}

func (m *MockRepo) ListByBankID(ctx context.Context, bankID string) ([]*Record, error) {
	return nil, nil
}

type MockPayments struct {
	CreateTransferFunc func(ctx context.Context, transfer dwolla.NewTransfer) (string, error)
	transfers          int
}

func (m *MockPayments) CreateCustomer(ctx context.Context, customer dwolla.NewCustomer) (string, error) {
	return "", errors.New("not implemented")
}

func (m *MockPayments) AddFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error) {
	return "", errors.New("not implemented")
}

func (m *MockPayments) CreateTransfer(ctx context.Context, transfer dwolla.NewTransfer) (string, error) {
	m.transfers++
	if m.CreateTransferFunc != nil {
		return m.CreateTransferFunc(ctx, transfer)
	}
	return "https://api/transfers/tr-1", nil
}

func newBanks() *MockBankRepo {
	return &MockBankRepo{banks: map[string]*bank.Bank{
		"bank-a": {ID: "bank-a", UserID: "alice", AccountID: "acc-a", FundingSourceURL: "https://api/fs/a"},
		"bank-b": {ID: "bank-b", UserID: "bob", AccountID: "acc-b", FundingSourceURL: "https://api/fs/b"},
	}}
}

func TestCreateTransfer_Success(t *testing.T) {
	repo := &MockRepo{}
	payments := &MockPayments{
		CreateTransferFunc: func(ctx context.Context, transfer dwolla.NewTransfer) (string, error) {
			assert.Equal(t, "https://api/fs/a", transfer.SourceFundingSourceURL)
			assert.Equal(t, "https://api/fs/b", transfer.DestinationFundingSourceURL)
			assert.Equal(t, "25.5", transfer.Amount.String())
			return "https://api/transfers/tr-9", nil
		},
	}
	svc := NewTransferService(newBanks(), repo, payments, zap.NewNop())

	rec, err := svc.CreateTransfer(context.Background(), "alice", TransferParams{
		SourceBankID:        "bank-a",
		ReceiverShareableID: crypto.EncodeShareableID("acc-b"),
		ReceiverEmail:       "bob@example.com",
		Amount:              decimal.RequireFromString("25.50"),
		Name:                "Dinner",
	})
	require.NoError(t, err)
	assert.Equal(t, "rec-1", rec.ID)

	require.Len(t, repo.created, 1)
	p := repo.created[0]
	assert.Equal(t, KindTransfer, p.Kind)
	assert.Equal(t, "alice", p.SenderID)
	assert.Equal(t, "bob", p.ReceiverID)
	assert.Equal(t, "bank-b", p.ReceiverBankID)
	assert.Equal(t, "https://api/transfers/tr-9", p.TransferURL)
}

func TestCreateTransfer_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		sender   string
		params   TransferParams
		wantKind error
	}{
		{
			name:     "non-positive amount",
			sender:   "alice",
			params:   TransferParams{SourceBankID: "bank-a", ReceiverShareableID: crypto.EncodeShareableID("acc-b"), Amount: decimal.Zero},
			wantKind: apperrors.ErrInvalidInput,
		},
		{
			name:     "source bank owned by someone else",
			sender:   "mallory",
			params:   TransferParams{SourceBankID: "bank-a", ReceiverShareableID: crypto.EncodeShareableID("acc-b"), Amount: decimal.NewFromInt(1)},
			wantKind: apperrors.ErrNotFound,
		},
		{
			name:     "unknown receiver",
			sender:   "alice",
			params:   TransferParams{SourceBankID: "bank-a", ReceiverShareableID: crypto.EncodeShareableID("acc-zzz"), Amount: decimal.NewFromInt(1)},
			wantKind: apperrors.ErrNotFound,
		},
		{
			name:     "garbled shareable id",
			sender:   "alice",
			params:   TransferParams{SourceBankID: "bank-a", ReceiverShareableID: "%%%", Amount: decimal.NewFromInt(1)},
			wantKind: apperrors.ErrInvalidInput,
		},
		{
			name:     "same bank",
			sender:   "alice",
			params:   TransferParams{SourceBankID: "bank-a", ReceiverShareableID: crypto.EncodeShareableID("acc-a"), Amount: decimal.NewFromInt(1)},
			wantKind: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepo{}
			payments := &MockPayments{}
			svc := NewTransferService(newBanks(), repo, payments, zap.NewNop())

			_, err := svc.CreateTransfer(context.Background(), tt.sender, tt.params)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Zero(t, payments.transfers)
			assert.Empty(t, repo.created)
		})
	}
}

func TestCreateTransfer_AmbiguousReceiver(t *testing.T) {
	banks := newBanks()
	banks.banks["bank-c"] = &bank.Bank{ID: "bank-c", UserID: "carol", AccountID: "acc-b", FundingSourceURL: "https://api/fs/c"}
	repo := &MockRepo{}
	payments := &MockPayments{}
	svc := NewTransferService(banks, repo, payments, zap.NewNop())

	_, err := svc.CreateTransfer(context.Background(), "alice", TransferParams{
		SourceBankID:        "bank-a",
		ReceiverShareableID: crypto.EncodeShareableID("acc-b"),
		Amount:              decimal.NewFromInt(5),
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, err, bank.ErrAmbiguousAccount)
	assert.Zero(t, payments.transfers)
	assert.Empty(t, repo.created)
}

func TestCreateTransfer_RemoteFailure(t *testing.T) {
	repo := &MockRepo{}
	payments := &MockPayments{
		CreateTransferFunc: func(ctx context.Context, transfer dwolla.NewTransfer) (string, error) {
			return "", errors.New("insufficient funds")
		},
	}
	svc := NewTransferService(newBanks(), repo, payments, zap.NewNop())

	_, err := svc.CreateTransfer(context.Background(), "alice", TransferParams{
		SourceBankID:        "bank-a",
		ReceiverShareableID: crypto.EncodeShareableID("acc-b"),
		Amount:              decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, apperrors.ErrRemoteFetchFailed)
	assert.Empty(t, repo.created)
}

func TestCreateTransfer_PersistFailureLogsOrphan(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &MockRepo{
		CreateFunc: func(ctx context.Context, params CreateParams) (*Record, error) {
			return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "transactions.create", errors.New("timeout"))
		},
	}
	svc := NewTransferService(newBanks(), repo, &MockPayments{}, zap.New(core))

	_, err := svc.CreateTransfer(context.Background(), "alice", TransferParams{
		SourceBankID:        "bank-a",
		ReceiverShareableID: crypto.EncodeShareableID("acc-b"),
		Amount:              decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, apperrors.ErrPersistenceFailed)
	assert.Equal(t, 1, logs.FilterMessageSnippet("orphaned").Len())
}
