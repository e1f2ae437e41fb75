package openfinance

import (
	"context"
	"errors"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/transaction"
	"horizon/internal/infrastructure/dwolla"
	"horizon/internal/infrastructure/plaid"
	"horizon/internal/shared/apperrors"
)

// MockClient implements plaid.ClientInterface and records every call.
type MockClient struct {
	AccountsGetFunc             func(ctx context.Context, accessToken string) (*plaid.AccountsGetResponse, error)
	TransactionsSyncFunc        func(ctx context.Context, req plaid.TransactionsSyncRequest) (*plaid.TransactionsSyncResponse, error)
	ItemPublicTokenExchangeFunc func(ctx context.Context, publicToken string) (*plaid.ItemPublicTokenExchangeResponse, error)
	ProcessorTokenCreateFunc    func(ctx context.Context, accessToken, accountID, processor string) (string, error)
	LinkTokenCreateFunc         func(ctx context.Context, req plaid.LinkTokenCreateRequest) (*plaid.LinkTokenCreateResponse, error)

	SyncRequests        []plaid.TransactionsSyncRequest
	AccountsGetCalls    int
	ProcessorTokenCalls int
}

func (m *MockClient) AccountsGet(ctx context.Context, accessToken string) (*plaid.AccountsGetResponse, error) {
	m.AccountsGetCalls++
	if m.AccountsGetFunc != nil {
		return m.AccountsGetFunc(ctx, accessToken)
	}
	return &plaid.AccountsGetResponse{}, nil
}

func (m *MockClient) TransactionsSync(ctx context.Context, req plaid.TransactionsSyncRequest) (*plaid.TransactionsSyncResponse, error) {
	m.SyncRequests = append(m.SyncRequests, req)
	if m.TransactionsSyncFunc != nil {
		return m.TransactionsSyncFunc(ctx, req)
	}
	return &plaid.TransactionsSyncResponse{}, nil
}

func (m *MockClient) InstitutionsGetByID(ctx context.Context, institutionID string, countryCodes []string) (*plaid.Institution, error) {
	return &plaid.Institution{InstitutionID: institutionID}, nil
}

func (m *MockClient) ItemPublicTokenExchange(ctx context.Context, publicToken string) (*plaid.ItemPublicTokenExchangeResponse, error) {
	if m.ItemPublicTokenExchangeFunc != nil {
		return m.ItemPublicTokenExchangeFunc(ctx, publicToken)
	}
	return &plaid.ItemPublicTokenExchangeResponse{AccessToken: "access-1", ItemID: "item-1"}, nil
}

func (m *MockClient) ProcessorTokenCreate(ctx context.Context, accessToken, accountID, processor string) (string, error) {
	m.ProcessorTokenCalls++
	if m.ProcessorTokenCreateFunc != nil {
		return m.ProcessorTokenCreateFunc(ctx, accessToken, accountID, processor)
	}
	return "processor-1", nil
}

func (m *MockClient) LinkTokenCreate(ctx context.Context, req plaid.LinkTokenCreateRequest) (*plaid.LinkTokenCreateResponse, error) {
	if m.LinkTokenCreateFunc != nil {
		return m.LinkTokenCreateFunc(ctx, req)
	}
	return &plaid.LinkTokenCreateResponse{LinkToken: "link-sandbox-1"}, nil
}

// MockPayments implements dwolla.ClientInterface
type MockPayments struct {
	AddFundingSourceFunc func(ctx context.Context, customerID, processorToken, bankName string) (string, error)
	FundingSourceCalls   int
}

func (m *MockPayments) CreateCustomer(ctx context.Context, customer dwolla.NewCustomer) (string, error) {
	return "", errors.New("not implemented")
}

func (m *MockPayments) AddFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error) {
	m.FundingSourceCalls++
	if m.AddFundingSourceFunc != nil {
		return m.AddFundingSourceFunc(ctx, customerID, processorToken, bankName)
	}
	return "https://api-sandbox.dwolla.com/funding-sources/fs-1", nil
}

func (m *MockPayments) CreateTransfer(ctx context.Context, transfer dwolla.NewTransfer) (string, error) {
	return "", errors.New("not implemented")
}

// MockBankRepo implements bank.Repository
type MockBankRepo struct {
	CreateFunc func(ctx context.Context, params bank.CreateParams) (*bank.Bank, error)
	Existing   map[string]*bank.Bank // by account id
	LookupErr  error
	Created    []bank.CreateParams
}

func (m *MockBankRepo) Create(ctx context.Context, params bank.CreateParams) (*bank.Bank, error) {
	m.Created = append(m.Created, params)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &bank.Bank{
		ID:               "bank-doc-1",
		UserID:           params.UserID,
		BankID:           params.BankID,
		AccountID:        params.AccountID,
		AccessToken:      params.AccessToken,
		FundingSourceURL: params.FundingSourceURL,
		ShareableID:      params.ShareableID,
	}, nil
}

func (m *MockBankRepo) GetByID(ctx context.Context, id string) (*bank.Bank, error) {
	return nil, apperrors.ErrNotFound
}

func (m *MockBankRepo) ListByUserID(ctx context.Context, userID string) ([]*bank.Bank, error) {
	return nil, nil
}

func (m *MockBankRepo) GetByAccountID(ctx context.Context, accountID string) (*bank.Bank, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	if b, ok := m.Existing[accountID]; ok {
		return b, nil
	}
	return nil, apperrors.ErrNotFound
}

// MockTransactionRepo implements transaction.Repository
type MockTransactionRepo struct {
	CreateFunc func(ctx context.Context, params transaction.CreateParams) (*transaction.Record, error)
	Created    []transaction.CreateParams
}

func (m *MockTransactionRepo) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Record, error) {
	m.Created = append(m.Created, params)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &transaction.Record{ID: "tx-doc-1", Kind: params.Kind, BankID: params.BankID}, nil
}

func (m *MockTransactionRepo) ListByBankID(ctx context.Context, bankID string) ([]*transaction.Record, error) {
	return nil, nil
}
