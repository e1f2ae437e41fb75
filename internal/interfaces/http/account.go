package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"horizon/internal/shared/apperrors"
	"horizon/internal/shared/middleware"
)

type AccountHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

func NewAccountHandler(accounts AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// HandleListAccounts returns every linked account with totals. Banks
// that could not be reached are left out.
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	summary, err := h.accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleGetAccount returns one account and its transactions. The id is
// the bank record id.
func (h *AccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	detail, err := h.accounts.GetAccountForUser(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
