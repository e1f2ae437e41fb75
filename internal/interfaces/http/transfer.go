package http

import (
	"net/http"

	"go.uber.org/zap"

	"horizon/internal/domain/transaction"
	"horizon/internal/shared/apperrors"
	"horizon/internal/shared/middleware"
)

type TransferHandler struct {
	transfers TransferService
	logger    *zap.Logger
}

func NewTransferHandler(transfers TransferService, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{transfers: transfers, logger: logger}
}

// HandleCreateTransfer moves money from one of the user's banks to the
// bank behind a shareable id.
func (h *TransferHandler) HandleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	var req transaction.TransferParams
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	record, err := h.transfers.CreateTransfer(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}
