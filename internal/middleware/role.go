package middleware

import (
	"net/http"

	"github.com/profilehub/user-service/internal/models"
)

// RequireRoles checks the identity attached by Authenticate against a fixed
// allow-list declared at route registration. The check is exact-match:
// callers must list every role they accept.
//
// Authenticate must run before this middleware. A missing identity means the
// chain is miswired and is reported as 401, distinct from the 403 returned
// for a legitimate denial.
func RequireRoles(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok || identity.Role == "" {
				respondError(w, http.StatusUnauthorized, "unauthorized: user info missing")
				return
			}

			if !models.RoleAllowed(identity.Role, allowed) {
				respondError(w, http.StatusForbidden, "forbidden: access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
