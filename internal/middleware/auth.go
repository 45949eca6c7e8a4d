package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/profilehub/user-service/internal/models"
	"github.com/profilehub/user-service/internal/token"
	"go.uber.org/zap"
)

// IdentityStore resolves a token's email claim to a live user record.
type IdentityStore interface {
	// Method GetIdentityByEmail retrieves the id, email and role of the user
	// with the given email. The password hash is never loaded.
	//
	// If no such user exists, models.ErrUserNotFound is returned together
	// with "nil" value.
	GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error)
}

// Authenticate validates the bearer token on each request and attaches a
// fresh identity to the request context. The identity's id and role come
// from the users table as of this request, not from the token's claims:
// a role changed after the token was issued takes effect immediately.
func Authenticate(codec *token.Codec, store IdentityStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Expected format: "Bearer <token>"
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respondError(w, http.StatusUnauthorized, "unauthorized: no token provided")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := codec.Verify(tokenString)
			if err != nil {
				switch {
				case errors.Is(err, token.ErrExpired):
					respondError(w, http.StatusUnauthorized, "token expired")
				default:
					respondError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			// Resolve the identity against the store. Guards against tokens
			// issued for since-deleted users.
			identity, err := store.GetIdentityByEmail(r.Context(), claims.Email)
			if err != nil {
				if errors.Is(err, models.ErrUserNotFound) {
					respondError(w, http.StatusUnauthorized, "unauthorized: user not found")
					return
				}
				logger.Error("authentication failed",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err),
				)
				respondError(w, http.StatusInternalServerError, "authentication failed")
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// respondError writes a JSON error body without pulling in the handlers package
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
