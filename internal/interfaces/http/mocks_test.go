package http

import (
	"context"

	"horizon/internal/domain/account"
	"horizon/internal/domain/bank"
	"horizon/internal/domain/transaction"
	"horizon/internal/domain/user"
	"horizon/internal/shared/apperrors"
)

type MockUserService struct {
	SignUpFunc      func(ctx context.Context, params user.SignUpParams) (*user.User, error)
	SignInFunc      func(ctx context.Context, params user.SignInParams) (*user.User, error)
	GetUserInfoFunc func(ctx context.Context, userID string) (*user.User, error)
}

func (m *MockUserService) SignUp(ctx context.Context, params user.SignUpParams) (*user.User, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, params)
	}
	return &user.User{UserID: "user-1", Email: params.Email}, nil
}

func (m *MockUserService) SignIn(ctx context.Context, params user.SignInParams) (*user.User, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, params)
	}
	return &user.User{UserID: "user-1", Email: params.Email}, nil
}

func (m *MockUserService) GetUserInfo(ctx context.Context, userID string) (*user.User, error) {
	if m.GetUserInfoFunc != nil {
		return m.GetUserInfoFunc(ctx, userID)
	}
	if userID == "" {
		return nil, apperrors.ErrNotFound
	}
	return &user.User{UserID: userID, Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"}, nil
}

type MockAccountService struct {
	ListAccountsFunc      func(ctx context.Context, userID string) (*account.Summary, error)
	GetAccountForUserFunc func(ctx context.Context, userID, bankID string) (*account.Detail, error)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, userID string) (*account.Summary, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx, userID)
	}
	return &account.Summary{}, nil
}

func (m *MockAccountService) GetAccountForUser(ctx context.Context, userID, bankID string) (*account.Detail, error) {
	if m.GetAccountForUserFunc != nil {
		return m.GetAccountForUserFunc(ctx, userID, bankID)
	}
	return &account.Detail{}, nil
}

type MockLinkService struct {
	CreateLinkTokenFunc     func(ctx context.Context, u *user.User) (string, error)
	ExchangePublicTokenFunc func(ctx context.Context, publicToken string, u *user.User) (*bank.Bank, error)
}

func (m *MockLinkService) CreateLinkToken(ctx context.Context, u *user.User) (string, error) {
	if m.CreateLinkTokenFunc != nil {
		return m.CreateLinkTokenFunc(ctx, u)
	}
	return "link-sandbox-1", nil
}

func (m *MockLinkService) ExchangePublicToken(ctx context.Context, publicToken string, u *user.User) (*bank.Bank, error) {
	if m.ExchangePublicTokenFunc != nil {
		return m.ExchangePublicTokenFunc(ctx, publicToken, u)
	}
	return &bank.Bank{ID: "bank-1", UserID: u.UserID}, nil
}

type MockTransferService struct {
	CreateTransferFunc func(ctx context.Context, senderUserID string, params transaction.TransferParams) (*transaction.Record, error)
}

func (m *MockTransferService) CreateTransfer(ctx context.Context, senderUserID string, params transaction.TransferParams) (*transaction.Record, error) {
	if m.CreateTransferFunc != nil {
		return m.CreateTransferFunc(ctx, senderUserID, params)
	}
	return &transaction.Record{ID: "tx-1", SenderID: senderUserID, Amount: params.Amount}, nil
}
