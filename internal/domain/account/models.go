package account

import (
	"github.com/shopspring/decimal"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/transaction"
	"horizon/internal/infrastructure/plaid"
)

// Account is a live snapshot of one linked account. It is rebuilt from
// the aggregator on every read and never stored.
type Account struct {
	ID               string              `json:"id"`
	AvailableBalance decimal.NullDecimal `json:"availableBalance"`
	CurrentBalance   decimal.NullDecimal `json:"currentBalance"`
	InstitutionID    string              `json:"institutionId"`
	InstitutionName  string              `json:"institutionName,omitempty"`
	Name             string              `json:"name"`
	OfficialName     string              `json:"officialName"`
	Mask             string              `json:"mask"`
	Type             string              `json:"type"`
	Subtype          string              `json:"subtype"`
	AppwriteItemID   string              `json:"appwriteItemId"` // bank record id
	ShareableID      string              `json:"shareableId"`
}

// Summary is the dashboard view of every account a user has linked.
type Summary struct {
	Data                []*Account      `json:"data"`
	TotalBanks          int             `json:"totalBanks"`
	TotalCurrentBalance decimal.Decimal `json:"totalCurrentBalance"`
}

// Detail is one account with its merged transaction history, newest first.
type Detail struct {
	Data         *Account                  `json:"data"`
	Transactions []transaction.Transaction `json:"transactions"`
}

func newAccount(b *bank.Bank, a *plaid.Account, inst *plaid.Institution) *Account {
	return &Account{
		ID:               a.AccountID,
		AvailableBalance: a.Balances.Available,
		CurrentBalance:   a.Balances.Current,
		InstitutionID:    inst.InstitutionID,
		InstitutionName:  inst.Name,
		Name:             a.Name,
		OfficialName:     a.OfficialName,
		Mask:             a.Mask,
		Type:             a.Type,
		Subtype:          a.Subtype,
		AppwriteItemID:   b.ID,
		ShareableID:      b.ShareableID,
	}
}

// canonicalAccount picks the account a bank record refers to. Records
// carry the account id chosen at link time; older items fall back to the
// first account returned.
func canonicalAccount(b *bank.Bank, accounts []plaid.Account) *plaid.Account {
	for i := range accounts {
		if accounts[i].AccountID == b.AccountID {
			return &accounts[i]
		}
	}
	return &accounts[0]
}

func sumCurrent(accounts []*Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.CurrentBalance.Valid {
			total = total.Add(a.CurrentBalance.Decimal)
		}
	}
	return total
}
