package dwolla

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NewCustomer is a verified personal customer. SSN is sent to the processor
// and never stored locally.
type NewCustomer struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

// NewTransfer moves Amount from one funding source URL to another.
type NewTransfer struct {
	SourceFundingSourceURL      string
	DestinationFundingSourceURL string
	Amount                      decimal.Decimal
}

type link struct {
	Href string `json:"href"`
}

type money struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type transferRequest struct {
	Links  map[string]link `json:"_links"`
	Amount money           `json:"amount"`
}

type fundingSourceRequest struct {
	Links      map[string]link `json:"_links"`
	PlaidToken string          `json:"plaidToken"`
	Name       string          `json:"name"`
}

type onDemandAuthorization struct {
	Links      map[string]link `json:"_links"`
	BodyText   string          `json:"bodyText"`
	ButtonText string          `json:"buttonText"`
}

// ErrorResponse represents an error body from the API
type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Embedded struct {
		Errors []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Path    string `json:"path"`
		} `json:"errors"`
	} `json:"_embedded"`
}

// APIError carries a non-2xx response.
type APIError struct {
	StatusCode int
	Response   ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.Code == "" {
		return fmt.Sprintf("dwolla API error (status %d)", e.StatusCode)
	}
	msg := fmt.Sprintf("dwolla API error (status %d): %s - %s", e.StatusCode, e.Response.Code, e.Response.Message)
	for _, fe := range e.Response.Embedded.Errors {
		msg += fmt.Sprintf("; %s: %s", fe.Path, fe.Message)
	}
	return msg
}

// ExtractCustomerID returns the trailing id segment of a customer URL.
func ExtractCustomerID(customerURL string) string {
	trimmed := strings.TrimRight(customerURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
