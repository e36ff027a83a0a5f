package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/eventlane/auth-service/libs/auth/service"
)

type contextKey string

const identityKey contextKey = "identity"

// AccountLookup resolves the current account for a token subject.
// It returns nil (with a nil error) when no such account exists; errors are
// reserved for store failures.
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*service.Identity, error)
}

// Authenticator gates requests on a bearer token. Tokens are decoded by the
// codec and then the subject is re-fetched from the store; the role embedded
// in the token is never used for privilege decisions, so a role change takes
// effect on the very next request even though issued tokens stay valid.
type Authenticator struct {
	tokens   *service.TokenGenerator
	accounts AccountLookup
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(tokens *service.TokenGenerator, accounts AccountLookup) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		accounts: accounts,
	}
}

// RequireUser validates the bearer token, re-fetches the subject from the
// store, and attaches the fresh identity to the request context. Missing or
// invalid tokens and unknown subjects are rejected with 401.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := a.authenticate(w, r)
		if !ok {
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireAdmin runs RequireUser and additionally requires the freshly
// fetched role to be ADMIN
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.requireRole(next, "ADMIN")
}

// RequireOrganizerOrAdmin runs RequireUser and additionally requires the
// freshly fetched role to be ORGANIZER or ADMIN
func (a *Authenticator) RequireOrganizerOrAdmin(next http.Handler) http.Handler {
	return a.requireRole(next, "ORGANIZER", "ADMIN")
}

// requireRole composes authentication with a check of the store-fetched role
func (a *Authenticator) requireRole(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := a.authenticate(w, r)
		if !ok {
			return
		}

		allowed := false
		for _, role := range roles {
			if strings.EqualFold(identity.Role, role) {
				allowed = true
				break
			}
		}
		if !allowed {
			respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// authenticate extracts and validates the bearer token and hydrates the
// identity from the store. It writes the failure response itself and returns
// ok=false when the request must not proceed.
func (a *Authenticator) authenticate(w http.ResponseWriter, r *http.Request) (service.Identity, bool) {
	token := extractBearerToken(r)
	if token == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return service.Identity{}, false
	}

	claims, err := a.tokens.Validate(token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid or expired token")
		return service.Identity{}, false
	}

	// Re-fetch the account so deleted accounts and stale roles are caught
	// even while the token itself is still valid.
	identity, err := a.accounts.GetByID(r.Context(), claims.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return service.Identity{}, false
	}
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "account no longer exists")
		return service.Identity{}, false
	}

	return *identity, true
}

// extractBearerToken returns the token from an "Authorization: Bearer <token>"
// header, or "" when the header is missing or malformed
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}

// respondError writes a JSON error body without pulling in the handler layer
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// WithIdentity attaches an authenticated identity to the context
func WithIdentity(ctx context.Context, identity service.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(ctx context.Context) (service.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(service.Identity)
	return identity, ok
}
