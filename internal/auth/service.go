package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/athena-api/internal/httputil"
	"github.com/redmonkez12/athena-api/internal/logging"
	"github.com/redmonkez12/athena-api/internal/user"
)

const minPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrFieldRequired      = errors.New("username, email and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrInvalidUsername    = errors.New("username must not be an email address")
	ErrEmailNotVerified   = errors.New("email not verified, please check your inbox")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInvalidFlowToken   = errors.New("invalid or expired token")
	ErrNotificationFailed = errors.New("failed to deliver email")
)

// UserStore is the slice of the user repository the account flows need.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GetByLogin(ctx context.Context, login string) (*user.User, error)
	MarkVerified(ctx context.Context, userID uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// FlowTokenStore persists single-purpose email tokens.
type FlowTokenStore interface {
	Issue(ctx context.Context, userID uuid.UUID, kind FlowKind) (*FlowToken, error)
	Resolve(ctx context.Context, value string, kind FlowKind) (uuid.UUID, error)
	Delete(ctx context.Context, value string) error
	RevokeAll(ctx context.Context, userID uuid.UUID, kind FlowKind) error
}

// Notifier delivers account emails.
type Notifier interface {
	SendConfirmationEmail(ctx context.Context, toEmail, token string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}

// Service handles the account lifecycle: registration, login, email
// confirmation and password reset.
type Service struct {
	users           UserStore
	flowTokens      FlowTokenStore
	notifier        Notifier
	hasher          PasswordHasher
	tokenService    TokenService
	logger          *logging.Logger
	sessionDuration time.Duration
}

func NewService(
	users UserStore,
	flowTokens FlowTokenStore,
	notifier Notifier,
	hasher PasswordHasher,
	tokenService TokenService,
	logger *logging.Logger,
	sessionDuration time.Duration,
) *Service {
	return &Service{
		users:           users,
		flowTokens:      flowTokens,
		notifier:        notifier,
		hasher:          hasher,
		tokenService:    tokenService,
		logger:          logger,
		sessionDuration: sessionDuration,
	}
}

// Register creates an unverified account and sends a confirmation link.
// Delivery failures are logged; the account is kept either way.
func (s *Service) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	username, email, err := NormalizeRegistration(username, email, password)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, user.ErrDuplicateEmail
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, user.ErrDuplicateUsername
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, username, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) || errors.Is(err, user.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.flowTokens.Issue(ctx, newUser.ID, FlowVerification)
	if err != nil {
		return nil, fmt.Errorf("failed to issue verification token: %w", err)
	}

	if err := s.notifier.SendConfirmationEmail(ctx, newUser.Email, token.Value); err != nil {
		s.logger.Warn("failed to send confirmation email", "user_id", newUser.ID, "error", err)
	}

	return newUser, nil
}

// Login checks credentials and returns a signed session token. login may be
// either the email or the username.
func (s *Service) Login(ctx context.Context, login, password string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	existingUser, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(existingUser.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	if !existingUser.Verified {
		return "", ErrEmailNotVerified
	}

	token, err := s.tokenService.CreateToken(existingUser.ID, existingUser.Username, existingUser.Email, s.sessionDuration)
	if err != nil {
		return "", fmt.Errorf("failed to create session token: %w", err)
	}

	return token, nil
}

// Confirm marks the token owner as verified when email matches the owner's
// address. The token stays valid until it expires, so a repeated call
// reports ErrAlreadyVerified.
func (s *Service) Confirm(ctx context.Context, tokenValue, email string) error {
	userID, err := s.flowTokens.Resolve(ctx, tokenValue, FlowVerification)
	if err != nil {
		if errors.Is(err, ErrFlowTokenNotFound) {
			return ErrInvalidFlowToken
		}
		return fmt.Errorf("failed to resolve verification token: %w", err)
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidFlowToken
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if owner.Email != normalizeEmail(email) {
		return ErrInvalidFlowToken
	}

	if owner.Verified {
		return ErrAlreadyVerified
	}

	if err := s.users.MarkVerified(ctx, owner.ID); err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	return nil
}

// Resend issues a fresh confirmation link.
func (s *Service) Resend(ctx context.Context, email string) error {
	existingUser, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if existingUser.Verified {
		return ErrAlreadyVerified
	}

	token, err := s.flowTokens.Issue(ctx, existingUser.ID, FlowVerification)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	if err := s.notifier.SendConfirmationEmail(ctx, existingUser.Email, token.Value); err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	return nil
}

// RequestReset sends a password reset link. Unverified accounts may reset
// too.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	existingUser, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.flowTokens.Issue(ctx, existingUser.ID, FlowReset)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	if err := s.notifier.SendPasswordResetEmail(ctx, existingUser.Email, token.Value); err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	return nil
}

// UpdatePassword sets a new password for the owner of a reset token and
// consumes every outstanding reset token of that user.
func (s *Service) UpdatePassword(ctx context.Context, tokenValue, newPassword string) error {
	userID, err := s.flowTokens.Resolve(ctx, tokenValue, FlowReset)
	if err != nil {
		if errors.Is(err, ErrFlowTokenNotFound) {
			return ErrInvalidFlowToken
		}
		return fmt.Errorf("failed to resolve reset token: %w", err)
	}

	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidFlowToken
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, owner.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.flowTokens.Delete(ctx, tokenValue); err != nil {
		s.logger.Warn("failed to delete reset token", "user_id", owner.ID, "error", err)
	}
	if err := s.flowTokens.RevokeAll(ctx, owner.ID, FlowReset); err != nil {
		s.logger.Warn("failed to revoke reset tokens", "user_id", owner.ID, "error", err)
	}

	return nil
}

// NormalizeRegistration trims the username, normalizes the email and checks
// the registration field rules.
func NormalizeRegistration(username, email, password string) (string, string, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if username == "" || email == "" || password == "" {
		return "", "", ErrFieldRequired
	}
	if !httputil.IsEmail(email) {
		return "", "", ErrInvalidEmailFormat
	}
	if httputil.IsEmail(username) {
		return "", "", ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return "", "", ErrPasswordTooShort
	}
	return username, email, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
