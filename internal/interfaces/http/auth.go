package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"horizon/internal/domain/user"
	"horizon/internal/shared/auth"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	users  UserService
	tokens *auth.JWT
	cookie CookieConfig
	logger *zap.Logger
}

func NewAuthHandler(users UserService, tokens *auth.JWT, cookie CookieConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, cookie: cookie, logger: logger}
}

// AuthResponse is returned by sign-up and sign-in. The token is also set
// as the session cookie.
type AuthResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *user.User `json:"user"`
}

// HandleSignUp registers a user and starts a session.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req user.SignUpParams
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	u, err := h.users.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.startSession(w, http.StatusCreated, u)
}

// HandleSignIn authenticates with email and password.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req user.SignInParams
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	u, err := h.users.SignIn(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.startSession(w, http.StatusOK, u)
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, status int, u *user.User) {
	token, expiresAt, err := h.tokens.Generate(u.UserID, u.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, status, AuthResponse{Token: token, ExpiresAt: expiresAt, User: u})
}
