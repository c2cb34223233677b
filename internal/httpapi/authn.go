package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"gadgetry.org/internal/auth"
	"gadgetry.org/internal/obs"
)

const (
	tokenHeader = "token"
	authHeader  = "Authorization"
	bearer      = "Bearer "
)

// withAuth rejects requests without a valid session token before next runs.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.gate.Authenticate(extractToken(r))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				obs.ObserveAuth("authenticate", "missing")
				writeError(w, r, http.StatusUnauthorized, "Unauthorized: No token provided")
			default:
				obs.ObserveAuth("authenticate", "invalid")
				writeError(w, r, http.StatusUnauthorized, "Unauthorized: Invalid token")
			}
			return
		}
		obs.ObserveAuth("authenticate", "ok")
		ctx := auth.ContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ensureRole authorizes the authenticated caller for role and writes the
// failure response itself when it returns false.
func (a *API) ensureRole(w http.ResponseWriter, r *http.Request, role auth.Role) bool {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Unauthorized: No token provided")
		return false
	}
	err := a.gate.Authorize(r.Context(), userID, role)
	switch {
	case err == nil:
		obs.ObserveAuth("authorize", "ok")
		return true
	case errors.Is(err, auth.ErrUserNotFound):
		obs.ObserveAuth("authorize", "user_not_found")
		writeError(w, r, http.StatusNotFound, "User not found")
	case errors.Is(err, auth.ErrForbidden):
		obs.ObserveAuth("authorize", "forbidden")
		writeError(w, r, http.StatusForbidden, "Forbidden: Insufficient permissions")
	default:
		obs.ObserveAuth("authorize", "error")
		internalError(w, r, "authorization failed", err)
	}
	return false
}

// extractToken reads the token header, falling back to a bearer Authorization header.
func extractToken(r *http.Request) string {
	if tok := strings.TrimSpace(r.Header.Get(tokenHeader)); tok != "" {
		return tok
	}
	h := strings.TrimSpace(r.Header.Get(authHeader))
	if len(h) > len(bearer) && strings.EqualFold(h[:len(bearer)], bearer) {
		return strings.TrimSpace(h[len(bearer):])
	}
	return ""
}
