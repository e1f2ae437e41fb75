package http

import (
	"context"

	"horizon/internal/domain/account"
	"horizon/internal/domain/bank"
	"horizon/internal/domain/transaction"
	"horizon/internal/domain/user"
)

// UserService is the subset of user.Service the handlers use.
type UserService interface {
	SignUp(ctx context.Context, params user.SignUpParams) (*user.User, error)
	SignIn(ctx context.Context, params user.SignInParams) (*user.User, error)
	GetUserInfo(ctx context.Context, userID string) (*user.User, error)
}

type AccountService interface {
	ListAccounts(ctx context.Context, userID string) (*account.Summary, error)
	GetAccountForUser(ctx context.Context, userID, bankID string) (*account.Detail, error)
}

type LinkService interface {
	CreateLinkToken(ctx context.Context, u *user.User) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string, u *user.User) (*bank.Bank, error)
}

type TransferService interface {
	CreateTransfer(ctx context.Context, senderUserID string, params transaction.TransferParams) (*transaction.Record, error)
}
