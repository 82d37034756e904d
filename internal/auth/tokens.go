package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/athena-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenService issues and verifies session tokens.
// Implementations: PasetoService (PASETO v4.local) and JWTService (HS256).
type TokenService interface {
	CreateToken(userID uuid.UUID, username, email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// TokenClaims are the claims carried by a session token.
type TokenClaims struct {
	UserID    string    `json:"UserId"` // UUID stored as string in token
	Username  string    `json:"Username"`
	Email     string    `json:"Email"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// NewTokenService builds the implementation selected by cfg.TokenFormat.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.TokenFormat {
	case config.TokenFormatPaseto:
		return NewPasetoService(cfg.PasetoKey)
	case config.TokenFormatJWT:
		return NewJWTService(cfg.JWTSecret)
	default:
		return nil, fmt.Errorf("unsupported token format %q", cfg.TokenFormat)
	}
}
