package transaction

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeDebit  = "debit"
	TypeCredit = "credit"

	KindTransfer = "transfer"
	KindBankLink = "Bank Link"

	ChannelOnline = "online"
)

// Transaction is the merged view shown for one account: live aggregator
// activity plus locally recorded transfers.
type Transaction struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	PaymentChannel string          `json:"paymentChannel"`
	Category       string          `json:"category"`
	Type           string          `json:"type"`
	AccountID      string          `json:"accountId,omitempty"`
	Pending        bool            `json:"pending"`
	Image          string          `json:"image,omitempty"`
}

// Record is a locally persisted transaction document: a transfer between
// linked banks or a bank-link audit event.
type Record struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Channel        string          `json:"channel"`
	Category       string          `json:"category"`
	Kind           string          `json:"transactionType"`
	Status         string          `json:"status"`
	UserID         string          `json:"userId,omitempty"`
	BankID         string          `json:"bankId,omitempty"`
	SenderID       string          `json:"senderId,omitempty"`
	SenderBankID   string          `json:"senderBankId,omitempty"`
	ReceiverID     string          `json:"receiverId,omitempty"`
	ReceiverBankID string          `json:"receiverBankId,omitempty"`
	Email          string          `json:"email,omitempty"`
	TransferURL    string          `json:"transferUrl,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type CreateParams struct {
	Name           string
	Amount         decimal.Decimal
	Channel        string
	Category       string
	Kind           string
	Status         string
	UserID         string
	BankID         string
	SenderID       string
	SenderBankID   string
	ReceiverID     string
	ReceiverBankID string
	Email          string
	TransferURL    string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	switch p.Kind {
	case KindTransfer:
		if p.SenderBankID == "" || p.ReceiverBankID == "" {
			return errors.New("transfer requires sender and receiver banks")
		}
		if !p.Amount.IsPositive() {
			return errors.New("transfer amount must be positive")
		}
	case KindBankLink:
		if p.UserID == "" || p.BankID == "" {
			return errors.New("link event requires user and bank")
		}
		if !p.Amount.IsZero() {
			return errors.New("link event amount must be zero")
		}
	default:
		return errors.New("unknown transaction kind")
	}
	return nil
}

// NewLinkEvent builds the zero-amount audit record written when a bank is linked.
func NewLinkEvent(userID, bankID string) CreateParams {
	return CreateParams{
		Name:     "Bank account linked",
		Amount:   decimal.Zero,
		Channel:  ChannelOnline,
		Category: "Bank Account Created",
		Kind:     KindBankLink,
		Status:   "Completed",
		UserID:   userID,
		BankID:   bankID,
	}
}

// FromTransfer renders a transfer record from the point of view of bankID.
func FromTransfer(r *Record, bankID string) Transaction {
	txType := TypeCredit
	if r.SenderBankID == bankID {
		txType = TypeDebit
	}
	return Transaction{
		ID:             r.ID,
		Name:           r.Name,
		Amount:         r.Amount,
		Date:           r.CreatedAt,
		PaymentChannel: r.Channel,
		Category:       r.Category,
		Type:           txType,
	}
}

// SortNewestFirst orders by date descending; equal dates fall back to id
// ascending so the order is deterministic.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
}
