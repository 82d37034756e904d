package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/redmonkez12/athena-api/internal/httputil"
	"github.com/redmonkez12/athena-api/internal/logging"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// Identity is the authenticated caller, available to handlers behind the
// middleware for the rest of the request.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Email    string
}

var (
	errMissingAuth       = errors.New("missing authentication")
	errInvalidAuthHeader = errors.New("invalid authorization header format")
)

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// RequireAuth rejects requests without a valid bearer token: 401 when the
// header is absent, 403 when it is present but unusable.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.authenticate(r)
		if err != nil {
			switch {
			case errors.Is(err, errMissingAuth):
				httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			case errors.Is(err, errInvalidAuthHeader):
				httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusForbidden)
			case errors.Is(err, ErrExpiredToken):
				httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusForbidden)
			default:
				httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusForbidden)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// OptionalAuth injects the identity when a valid token is present and lets
// anonymous requests through unchanged.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.authenticate(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

func (m *Middleware) authenticate(r *http.Request) (Identity, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Identity{}, errMissingAuth
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return Identity{}, errInvalidAuthHeader
	}

	claims, err := m.tokenService.VerifyToken(token)
	if err != nil {
		return Identity{}, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID:   userID,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}

func withIdentity(ctx context.Context, identity Identity) context.Context {
	ctx = context.WithValue(ctx, IdentityContextKey, identity)
	logger := logging.GetLoggerFromContext(ctx).WithFields(map[string]any{"user_id": identity.UserID})
	return logging.WithLogger(ctx, logger)
}

// IdentityFromContext returns the caller identity stored by the middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(Identity)
	return identity, ok
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := IdentityFromContext(ctx)
	return identity.UserID, ok
}
