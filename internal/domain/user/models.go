package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

type User struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Email             string    `json:"email"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Address1          string    `json:"address1"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	PostalCode        string    `json:"postalCode"`
	DateOfBirth       string    `json:"dateOfBirth"`
	DwollaCustomerID  string    `json:"dwollaCustomerId"`
	DwollaCustomerURL string    `json:"dwollaCustomerUrl"`
	PasswordHash      string    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
}

// FullName is used as the display name at the aggregator link screen.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type CreateUserParams struct {
	UserID            string
	Email             string
	FirstName         string
	LastName          string
	Address1          string
	City              string
	State             string
	PostalCode        string
	DateOfBirth       string
	DwollaCustomerID  string
	DwollaCustomerURL string
	PasswordHash      string
}

// SignUpParams is the sign-up form. SSN is forwarded to the payments
// processor for identity verification only.
type SignUpParams struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

// Validate validates the sign-up parameters
func (p SignUpParams) Validate() error {
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return errors.New("valid email is required")
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return errors.New("first and last name are required")
	}
	if p.Address1 == "" || p.City == "" || p.PostalCode == "" {
		return errors.New("address is required")
	}
	if len(p.State) != 2 {
		return errors.New("state must be a two-letter code")
	}
	if _, err := time.Parse("2006-01-02", p.DateOfBirth); err != nil {
		return errors.New("date of birth must be YYYY-MM-DD")
	}
	if p.SSN == "" {
		return errors.New("SSN is required")
	}
	return nil
}

type SignInParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
