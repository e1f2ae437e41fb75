package plaid

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountsGetResponse is the body of /accounts/get
type AccountsGetResponse struct {
	Accounts  []Account `json:"accounts"`
	Item      Item      `json:"item"`
	RequestID string    `json:"request_id"`
}

type Account struct {
	AccountID    string   `json:"account_id"`
	Balances     Balances `json:"balances"`
	Mask         string   `json:"mask"`
	Name         string   `json:"name"`
	OfficialName string   `json:"official_name"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
}

// Balances may be null at the institution, hence NullDecimal.
type Balances struct {
	Available       decimal.NullDecimal `json:"available"`
	Current         decimal.NullDecimal `json:"current"`
	Limit           decimal.NullDecimal `json:"limit"`
	IsoCurrencyCode string              `json:"iso_currency_code"`
}

type Item struct {
	ItemID        string `json:"item_id"`
	InstitutionID string `json:"institution_id"`
}

// TransactionsSyncRequest pages through an item's transaction updates.
// An empty Cursor starts from the beginning of history.
type TransactionsSyncRequest struct {
	AccessToken string `json:"access_token"`
	Cursor      string `json:"cursor,omitempty"`
	Count       int    `json:"count,omitempty"`
}

type TransactionsSyncResponse struct {
	Added      []Transaction        `json:"added"`
	Modified   []Transaction        `json:"modified"`
	Removed    []RemovedTransaction `json:"removed"`
	NextCursor string               `json:"next_cursor"`
	HasMore    bool                 `json:"has_more"`
	RequestID  string               `json:"request_id"`
}

type Transaction struct {
	TransactionID  string          `json:"transaction_id"`
	AccountID      string          `json:"account_id"`
	Name           string          `json:"name"`
	MerchantName   string          `json:"merchant_name"`
	Amount         decimal.Decimal `json:"amount"`
	Date           string          `json:"date"` // YYYY-MM-DD
	PaymentChannel string          `json:"payment_channel"`
	Pending        bool            `json:"pending"`
	Category       []string        `json:"category"`
	CategoryID     string          `json:"category_id"`
	LogoURL        string          `json:"logo_url"`
}

// PrimaryCategory is the first category or "".
func (t *Transaction) PrimaryCategory() string {
	if len(t.Category) == 0 {
		return ""
	}
	return t.Category[0]
}

type RemovedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

type institutionsGetByIDRequest struct {
	InstitutionID string   `json:"institution_id"`
	CountryCodes  []string `json:"country_codes"`
}

type institutionsGetByIDResponse struct {
	Institution Institution `json:"institution"`
	RequestID   string      `json:"request_id"`
}

type Institution struct {
	InstitutionID string   `json:"institution_id"`
	Name          string   `json:"name"`
	Products      []string `json:"products"`
	CountryCodes  []string `json:"country_codes"`
	URL           string   `json:"url,omitempty"`
	PrimaryColor  string   `json:"primary_color,omitempty"`
	Logo          string   `json:"logo,omitempty"`
}

type itemPublicTokenExchangeRequest struct {
	PublicToken string `json:"public_token"`
}

type ItemPublicTokenExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

type processorTokenCreateRequest struct {
	AccessToken string `json:"access_token"`
	AccountID   string `json:"account_id"`
	Processor   string `json:"processor"`
}

type processorTokenCreateResponse struct {
	ProcessorToken string `json:"processor_token"`
	RequestID      string `json:"request_id"`
}

type LinkTokenCreateRequest struct {
	ClientName   string   `json:"client_name"`
	Language     string   `json:"language"`
	CountryCodes []string `json:"country_codes"`
	Products     []string `json:"products"`
	User         LinkUser `json:"user"`
}

type LinkUser struct {
	ClientUserID string `json:"client_user_id"`
}

type LinkTokenCreateResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
	RequestID  string `json:"request_id"`
}

// ErrorResponse represents an error body from the API
type ErrorResponse struct {
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
	RequestID      string `json:"request_id"`
}

// APIError carries a non-2xx response.
type APIError struct {
	StatusCode int
	Response   ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.ErrorCode == "" {
		return fmt.Sprintf("plaid API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("plaid API error (status %d): %s - %s", e.StatusCode, e.Response.ErrorCode, e.Response.ErrorMessage)
}
