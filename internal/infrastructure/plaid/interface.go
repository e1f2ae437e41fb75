package plaid

import (
	"context"
)

// ClientInterface defines the methods required from the aggregator API client
type ClientInterface interface {
	AccountsGet(ctx context.Context, accessToken string) (*AccountsGetResponse, error)
	TransactionsSync(ctx context.Context, req TransactionsSyncRequest) (*TransactionsSyncResponse, error)
	InstitutionsGetByID(ctx context.Context, institutionID string, countryCodes []string) (*Institution, error)
	ItemPublicTokenExchange(ctx context.Context, publicToken string) (*ItemPublicTokenExchangeResponse, error)
	ProcessorTokenCreate(ctx context.Context, accessToken, accountID, processor string) (string, error)
	LinkTokenCreate(ctx context.Context, req LinkTokenCreateRequest) (*LinkTokenCreateResponse, error)
}
