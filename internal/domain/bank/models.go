package bank

import (
	"errors"
	"time"
)

// ErrAmbiguousAccount means several bank records hold the same aggregator
// account id, so the account cannot be resolved to one bank.
var ErrAmbiguousAccount = errors.New("account is held by more than one bank")

// Bank binds a user to one linked account at the aggregator and its
// payments funding source. Records are immutable once created.
type Bank struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	BankID           string    `json:"bankId"` // aggregator item id
	AccountID        string    `json:"accountId"`
	AccessToken      string    `json:"-"`
	FundingSourceURL string    `json:"fundingSourceUrl"`
	ShareableID      string    `json:"shareableId"`
	CreatedAt        time.Time `json:"createdAt"`
}

// HasCredential reports whether the bank can be queried at the aggregator.
func (b *Bank) HasCredential() bool {
	return b.AccessToken != ""
}

// CreateParams contains parameters for persisting a new bank link
type CreateParams struct {
	UserID           string
	BankID           string
	AccountID        string
	AccessToken      string
	FundingSourceURL string
	ShareableID      string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.BankID == "" {
		return errors.New("item ID is required")
	}
	if p.AccountID == "" {
		return errors.New("account ID is required")
	}
	if p.AccessToken == "" {
		return errors.New("access token is required")
	}
	if p.ShareableID == "" {
		return errors.New("shareable ID is required")
	}
	return nil
}
