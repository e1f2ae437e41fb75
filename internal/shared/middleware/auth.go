package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"horizon/internal/shared/auth"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	emailKey
)

// Session authenticates requests by the session cookie, falling back to
// an "Authorization: Bearer" header for API clients.
func Session(tokens *auth.JWT, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r, cookieName)
			if token == "" {
				unauthorized(w, "authentication required")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				unauthorized(w, "invalid or expired session")
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			ctx = context.WithValue(ctx, emailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || scheme != "Bearer" {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "message": message})
}

// WithUserID stores the signed-in user's id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// CurrentUserID returns the signed-in user's id, if any.
func CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// CurrentEmail returns the signed-in user's email, if any.
func CurrentEmail(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}
