package transaction

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"horizon/internal/domain/bank"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/dwolla"
	"horizon/internal/shared/apperrors"
)

// TransferParams describes a payment from one of the sender's banks to the
// bank behind a shareable id.
type TransferParams struct {
	SourceBankID        string          `json:"sourceBankId"`
	ReceiverShareableID string          `json:"shareableId"`
	ReceiverEmail       string          `json:"email"`
	Amount              decimal.Decimal `json:"amount"`
	Name                string          `json:"name"`
}

// TransferService moves money between linked banks and records the transfer.
type TransferService struct {
	banks    bank.Repository
	repo     Repository
	payments dwolla.ClientInterface
	logger   *zap.Logger
}

func NewTransferService(banks bank.Repository, repo Repository, payments dwolla.ClientInterface, logger *zap.Logger) *TransferService {
	return &TransferService{banks: banks, repo: repo, payments: payments, logger: logger}
}

func (s *TransferService) CreateTransfer(ctx context.Context, senderUserID string, params TransferParams) (*Record, error) {
	if !params.Amount.IsPositive() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "transfer.create", errors.New("amount must be positive"))
	}
	if strings.TrimSpace(params.Name) == "" {
		params.Name = "Transfer"
	}

	source, err := s.banks.GetByID(ctx, params.SourceBankID)
	if err != nil {
		return nil, err
	}
	if source.UserID != senderUserID {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "transfer.source_bank", nil)
	}

	receiverAccountID, err := crypto.DecodeShareableID(params.ReceiverShareableID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "transfer.receiver", err)
	}
	receiver, err := s.banks.GetByAccountID(ctx, receiverAccountID)
	if errors.Is(err, bank.ErrAmbiguousAccount) {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "transfer.receiver", err)
	}
	if err != nil {
		return nil, err
	}
	if receiver.ID == source.ID {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "transfer.receiver", errors.New("cannot transfer to the same bank"))
	}

	transferURL, err := s.payments.CreateTransfer(ctx, dwolla.NewTransfer{
		SourceFundingSourceURL:      source.FundingSourceURL,
		DestinationFundingSourceURL: receiver.FundingSourceURL,
		Amount:                      params.Amount,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteFetchFailed, "transfer.create_remote", err)
	}

	record, err := s.repo.Create(ctx, CreateParams{
		Name:           params.Name,
		Amount:         params.Amount,
		Channel:        ChannelOnline,
		Category:       "Transfer",
		Kind:           KindTransfer,
		Status:         "pending",
		SenderID:       senderUserID,
		SenderBankID:   source.ID,
		ReceiverID:     receiver.UserID,
		ReceiverBankID: receiver.ID,
		Email:          params.ReceiverEmail,
		TransferURL:    transferURL,
	})
	if err != nil {
		s.logger.Warn("payments transfer orphaned after failed record write",
			zap.String("transfer_url", transferURL),
			zap.String("sender_bank_id", source.ID),
			zap.String("receiver_bank_id", receiver.ID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("transfer created",
		zap.String("transaction_id", record.ID),
		zap.String("sender_bank_id", source.ID),
		zap.String("receiver_bank_id", receiver.ID),
	)
	return record, nil
}
