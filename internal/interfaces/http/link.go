package http

import (
	"net/http"

	"go.uber.org/zap"

	"horizon/internal/domain/user"
	"horizon/internal/shared/apperrors"
	"horizon/internal/shared/middleware"
)

type LinkHandler struct {
	links  LinkService
	users  UserService
	logger *zap.Logger
}

func NewLinkHandler(links LinkService, users UserService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{links: links, users: users, logger: logger}
}

type LinkTokenResponse struct {
	LinkToken string `json:"linkToken"`
}

type ExchangeRequest struct {
	PublicToken string `json:"publicToken"`
}

// HandleCreateLinkToken starts a bank link session for the signed-in user.
func (h *LinkHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	token, err := h.links.CreateLinkToken(r.Context(), u)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkTokenResponse{LinkToken: token})
}

// HandleExchange completes a bank link with the public token from the
// link session.
func (h *LinkHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	var req ExchangeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	b, err := h.links.ExchangePublicToken(r.Context(), req.PublicToken, u)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *LinkHandler) currentUser(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.ErrUnauthorized)
		return nil, false
	}

	u, err := h.users.GetUserInfo(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return nil, false
	}
	return u, true
}
