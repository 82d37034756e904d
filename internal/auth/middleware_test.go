package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/athena-api/internal/httputil"
)

func TestMiddleware_RequireAuth(t *testing.T) {
	tokens, err := NewPasetoService(testPasetoKey)
	require.NoError(t, err)
	m := NewMiddleware(tokens)

	userID := uuid.New()
	valid, err := tokens.CreateToken(userID, "ana", "ana@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := tokens.CreateToken(userID, "ana", "ana@example.com", -time.Minute)
	require.NoError(t, err)

	var seen Identity
	protected := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, httputil.CodeMissingAuth},
		{"wrong scheme", "Token " + valid, http.StatusForbidden, httputil.CodeInvalidAuthHeader},
		{"no token", "Bearer", http.StatusForbidden, httputil.CodeInvalidAuthHeader},
		{"garbage token", "Bearer nope", http.StatusForbidden, httputil.CodeInvalidToken},
		{"expired token", "Bearer " + expired, http.StatusForbidden, httputil.CodeTokenExpired},
		{"upper-case scheme", "BEARER " + valid, http.StatusNoContent, ""},
		{"canonical scheme", "Bearer " + valid, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/addset", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				var body httputil.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Code)
			}
		})
	}

	assert.Equal(t, Identity{UserID: userID, Username: "ana", Email: "ana@example.com"}, seen)
}

func TestMiddleware_OptionalAuth(t *testing.T) {
	tokens, err := NewJWTService([]byte("s3cret"))
	require.NoError(t, err)
	m := NewMiddleware(tokens)

	userID := uuid.New()
	valid, err := tokens.CreateToken(userID, "ana", "ana@example.com", time.Hour)
	require.NoError(t, err)

	var gotID uuid.UUID
	var gotOK bool
	h := m.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = GetUserIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search/sets", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, gotOK)

	req := httptest.NewRequest(http.MethodPost, "/search/sets", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, gotOK)

	req = httptest.NewRequest(http.MethodPost, "/search/sets", nil)
	req.Header.Set("Authorization", "bearer "+valid)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, gotOK)
	assert.Equal(t, userID, gotID)
}
