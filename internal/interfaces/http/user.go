package http

import (
	"net/http"

	"go.uber.org/zap"

	"horizon/internal/shared/apperrors"
	"horizon/internal/shared/middleware"
)

type UserHandler struct {
	users  UserService
	logger *zap.Logger
}

func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleMe returns the signed-in user.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	u, err := h.users.GetUserInfo(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
