package dwolla

import "context"

// ClientInterface defines the payments processor operations the app uses.
// Every method returns the created resource URL.
type ClientInterface interface {
	CreateCustomer(ctx context.Context, customer NewCustomer) (string, error)
	AddFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error)
	CreateTransfer(ctx context.Context, transfer NewTransfer) (string, error)
}
