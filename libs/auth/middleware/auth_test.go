package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventlane/auth-service/libs/auth/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAccountLookup is a mock implementation of AccountLookup
type mockAccountLookup struct {
	identities map[string]*service.Identity
	err        error
}

func (m *mockAccountLookup) GetByID(ctx context.Context, id string) (*service.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.identities[id], nil
}

func newTestAuthenticator(lookup AccountLookup) (*Authenticator, *service.TokenGenerator) {
	tokens := service.NewTokenGenerator("test-secret-key", time.Hour)
	return NewAuthenticator(tokens, lookup), tokens
}

// okHandler records whether the downstream handler ran and with what identity
func okHandler(t *testing.T, called *bool, identity *service.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if identity != nil {
			id, ok := GetIdentity(r.Context())
			require.True(t, ok)
			*identity = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireUser(t *testing.T) {
	lookup := &mockAccountLookup{identities: map[string]*service.Identity{
		"user-1": {ID: "user-1", Email: "user@eventlane.io", Role: "USER"},
	}}
	auth, tokens := newTestAuthenticator(lookup)

	validToken, err := tokens.Generate(service.Identity{ID: "user-1", Email: "user@eventlane.io", Role: "USER"})
	require.NoError(t, err)

	deletedToken, err := tokens.Generate(service.Identity{ID: "deleted-user", Email: "gone@eventlane.io", Role: "USER"})
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectNext     bool
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "missing header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing bearer prefix",
			authHeader:     validToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic " + validToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authHeader:     "Bearer not-a-token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid token for deleted account",
			authHeader:     "Bearer " + deletedToken,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := auth.RequireUser(okHandler(t, &called, nil))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectNext, called)
			if !tt.expectNext {
				assert.Contains(t, rec.Body.String(), "error")
			}
		})
	}
}

func TestRequireUser_ExpiredToken(t *testing.T) {
	lookup := &mockAccountLookup{identities: map[string]*service.Identity{
		"user-1": {ID: "user-1", Email: "user@eventlane.io", Role: "USER"},
	}}
	auth, _ := newTestAuthenticator(lookup)

	expiredCodec := service.NewTokenGenerator("test-secret-key", -time.Hour)
	token, err := expiredCodec.Generate(service.Identity{ID: "user-1", Email: "user@eventlane.io", Role: "USER"})
	require.NoError(t, err)

	called := false
	handler := auth.RequireUser(okHandler(t, &called, nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireUser_UsesFreshIdentity(t *testing.T) {
	// Token was issued when the account was USER; the store now says ADMIN
	lookup := &mockAccountLookup{identities: map[string]*service.Identity{
		"user-1": {ID: "user-1", Email: "user@eventlane.io", Role: "ADMIN"},
	}}
	auth, tokens := newTestAuthenticator(lookup)

	token, err := tokens.Generate(service.Identity{ID: "user-1", Email: "user@eventlane.io", Role: "USER"})
	require.NoError(t, err)

	called := false
	var identity service.Identity
	handler := auth.RequireUser(okHandler(t, &called, &identity))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.True(t, called)
	assert.Equal(t, "ADMIN", identity.Role)
}

func TestRequireUser_StoreFailure(t *testing.T) {
	lookup := &mockAccountLookup{err: errors.New("connection refused")}
	auth, tokens := newTestAuthenticator(lookup)

	token, err := tokens.Generate(service.Identity{ID: "user-1", Email: "user@eventlane.io", Role: "USER"})
	require.NoError(t, err)

	called := false
	handler := auth.RequireUser(okHandler(t, &called, nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, called)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name           string
		storedRole     string
		expectedStatus int
		expectNext     bool
	}{
		{name: "admin allowed", storedRole: "ADMIN", expectedStatus: http.StatusOK, expectNext: true},
		{name: "lower case role allowed", storedRole: "admin", expectedStatus: http.StatusOK, expectNext: true},
		{name: "organizer forbidden", storedRole: "ORGANIZER", expectedStatus: http.StatusForbidden},
		{name: "user forbidden", storedRole: "USER", expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &mockAccountLookup{identities: map[string]*service.Identity{
				"user-1": {ID: "user-1", Email: "user@eventlane.io", Role: tt.storedRole},
			}}
			auth, tokens := newTestAuthenticator(lookup)

			token, err := tokens.Generate(service.Identity{ID: "user-1", Email: "user@eventlane.io", Role: tt.storedRole})
			require.NoError(t, err)

			called := false
			handler := auth.RequireAdmin(okHandler(t, &called, nil))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectNext, called)
		})
	}
}

func TestRequireAdmin_IgnoresTokenRole(t *testing.T) {
	// Token claims ADMIN but the store says USER: must be forbidden
	lookup := &mockAccountLookup{identities: map[string]*service.Identity{
		"user-1": {ID: "user-1", Email: "user@eventlane.io", Role: "USER"},
	}}
	auth, tokens := newTestAuthenticator(lookup)

	token, err := tokens.Generate(service.Identity{ID: "user-1", Email: "user@eventlane.io", Role: "ADMIN"})
	require.NoError(t, err)

	called := false
	handler := auth.RequireAdmin(okHandler(t, &called, nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestRequireOrganizerOrAdmin(t *testing.T) {
	tests := []struct {
		name           string
		storedRole     string
		expectedStatus int
		expectNext     bool
	}{
		{name: "admin allowed", storedRole: "ADMIN", expectedStatus: http.StatusOK, expectNext: true},
		{name: "organizer allowed", storedRole: "ORGANIZER", expectedStatus: http.StatusOK, expectNext: true},
		{name: "user forbidden", storedRole: "USER", expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &mockAccountLookup{identities: map[string]*service.Identity{
				"user-1": {ID: "user-1", Email: "user@eventlane.io", Role: tt.storedRole},
			}}
			auth, tokens := newTestAuthenticator(lookup)

			token, err := tokens.Generate(service.Identity{ID: "user-1", Email: "user@eventlane.io", Role: tt.storedRole})
			require.NoError(t, err)

			called := false
			handler := auth.RequireOrganizerOrAdmin(okHandler(t, &called, nil))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectNext, called)
		})
	}
}

func TestGetIdentity_Missing(t *testing.T) {
	_, ok := GetIdentity(context.Background())
	assert.False(t, ok)
}
