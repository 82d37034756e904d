package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// FlowKind discriminates what a flow token may be used for.
type FlowKind string

const (
	FlowVerification FlowKind = "verification"
	FlowReset        FlowKind = "reset"
)

var ErrFlowTokenNotFound = errors.New("flow token not found")

// FlowToken binds a user to one email-driven action.
type FlowToken struct {
	Value     string
	UserID    uuid.UUID
	Kind      FlowKind
	ExpiresAt time.Time
}

// FlowTokenRepository stores flow tokens in Redis. Keys hold a hash of the
// token value, never the value itself; a per-user set indexes every token
// issued to that user.
type FlowTokenRepository struct {
	client *redis.Client
	ttl    map[FlowKind]time.Duration
	now    func() time.Time
}

// NewFlowTokenRepository creates a repository with the given lifetimes.
func NewFlowTokenRepository(client *redis.Client, verificationTTL, resetTTL time.Duration) *FlowTokenRepository {
	return &FlowTokenRepository{
		client: client,
		ttl: map[FlowKind]time.Duration{
			FlowVerification: verificationTTL,
			FlowReset:        resetTTL,
		},
		now: time.Now,
	}
}

func flowTokenKey(tokenHash string) string {
	return fmt.Sprintf("flow_token:%s", tokenHash)
}

func userFlowTokensKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_flow_tokens:%s", userID.String())
}

// Issue mints a fresh 128-bit token for userID and persists it.
func (r *FlowTokenRepository) Issue(ctx context.Context, userID uuid.UUID, kind FlowKind) (*FlowToken, error) {
	ttl, ok := r.ttl[kind]
	if !ok || ttl <= 0 {
		return nil, fmt.Errorf("no lifetime configured for flow token kind %q", kind)
	}

	value, err := generateFlowTokenValue()
	if err != nil {
		return nil, fmt.Errorf("failed to generate flow token: %w", err)
	}

	expiresAt := r.now().Add(ttl)
	tokenHash := hashToken(value)
	userKey := userFlowTokensKey(userID)

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, flowTokenKey(tokenHash), map[string]any{
		"user_id":    userID.String(),
		"kind":       string(kind),
		"expires_at": expiresAt.Unix(),
	})
	pipe.Expire(ctx, flowTokenKey(tokenHash), ttl)
	pipe.SAdd(ctx, userKey, tokenHash)
	pipe.Expire(ctx, userKey, r.maxTTL())

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to store flow token: %w", err)
	}

	return &FlowToken{
		Value:     value,
		UserID:    userID,
		Kind:      kind,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve returns the owner of a token of the given kind. Unknown, expired
// and wrong-kind tokens all yield ErrFlowTokenNotFound.
func (r *FlowTokenRepository) Resolve(ctx context.Context, value string, kind FlowKind) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, ErrFlowTokenNotFound
	}

	data, err := r.client.HGetAll(ctx, flowTokenKey(hashToken(value))).Result()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get flow token: %w", err)
	}
	if len(data) == 0 {
		return uuid.Nil, ErrFlowTokenNotFound
	}

	if FlowKind(data["kind"]) != kind {
		return uuid.Nil, ErrFlowTokenNotFound
	}

	expiresAtUnix, err := strconv.ParseInt(data["expires_at"], 10, 64)
	if err != nil || !r.now().Before(time.Unix(expiresAtUnix, 0)) {
		return uuid.Nil, ErrFlowTokenNotFound
	}

	userID, err := uuid.Parse(data["user_id"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	return userID, nil
}

// Delete removes a used token.
func (r *FlowTokenRepository) Delete(ctx context.Context, value string) error {
	if err := r.client.Del(ctx, flowTokenKey(hashToken(value))).Err(); err != nil {
		return fmt.Errorf("failed to delete flow token: %w", err)
	}
	return nil
}

// RevokeAll deletes every live token of the given kind issued to userID.
func (r *FlowTokenRepository) RevokeAll(ctx context.Context, userID uuid.UUID, kind FlowKind) error {
	userKey := userFlowTokensKey(userID)

	tokenHashes, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list user flow tokens: %w", err)
	}

	for _, tokenHash := range tokenHashes {
		k, err := r.client.HGet(ctx, flowTokenKey(tokenHash), "kind").Result()
		if errors.Is(err, redis.Nil) {
			r.client.SRem(ctx, userKey, tokenHash)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read flow token: %w", err)
		}
		if FlowKind(k) != kind {
			continue
		}

		pipe := r.client.Pipeline()
		pipe.Del(ctx, flowTokenKey(tokenHash))
		pipe.SRem(ctx, userKey, tokenHash)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to revoke flow token: %w", err)
		}
	}

	return nil
}

// CountForUser returns how many live tokens are indexed for userID.
func (r *FlowTokenRepository) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := r.client.SCard(ctx, userFlowTokensKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count flow tokens: %w", err)
	}
	return n, nil
}

func (r *FlowTokenRepository) maxTTL() time.Duration {
	var longest time.Duration
	for _, ttl := range r.ttl {
		longest = max(longest, ttl)
	}
	return longest
}

// generateFlowTokenValue returns 16 random bytes, hex encoded.
func generateFlowTokenValue() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
