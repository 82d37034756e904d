package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/athena-api/internal/database"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Repository handles user data persistence
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx bun.IDB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new unverified user.
func (r *Repository) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	now := time.Now().UTC()
	dbUser := &database.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			if strings.Contains(err.Error(), "username") {
				return nil, ErrDuplicateUsername
			}
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, "u.id = ?", id)
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, "u.email = ?", email)
}

// GetByUsername retrieves a user by username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, "u.username = ?", username)
}

// GetByLogin retrieves a user whose email or username equals login.
func (r *Repository) GetByLogin(ctx context.Context, login string) (*User, error) {
	return r.getOne(ctx, "u.email = ? OR u.username = ?", strings.ToLower(login), login)
}

func (r *Repository) getOne(ctx context.Context, where string, args ...any) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where(where, args...).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// Exists reports whether a user with the given id exists.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := r.db.NewSelect().
		Model((*database.User)(nil)).
		Where("u.id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return ok, nil
}

// MarkVerified flips the user's Verified flag.
func (r *Repository) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("verified = ?", true).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark user as verified: %w", err)
	}

	return requireOneRow(result)
}

// UpdatePassword updates a user's password hash
func (r *Repository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return requireOneRow(result)
}

// GetProfile returns the public profile of a user.
func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profiles, err := r.Profiles(ctx, []database.User{*dbUser})
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

// Profiles converts user rows into profiles, loading the relation lists with
// one query per relation. Output order matches input order.
func (r *Repository) Profiles(ctx context.Context, rows []database.User) ([]Profile, error) {
	profiles := make([]Profile, len(rows))
	if len(rows) == 0 {
		return profiles, nil
	}

	ids := make([]uuid.UUID, len(rows))
	byID := make(map[uuid.UUID]*Profile, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
		profiles[i] = Profile{
			ID:              row.ID,
			Username:        row.Username,
			CreatedCardSets: []uuid.UUID{},
			LikedCardSets:   []uuid.UUID{},
			Following:       []uuid.UUID{},
			Followers:       []uuid.UUID{},
			CreatedAt:       row.CreatedAt,
		}
		byID[row.ID] = &profiles[i]
	}

	var created []database.CardSet
	if err := r.db.NewSelect().
		Model(&created).
		Column("id", "creator_id").
		Where("cs.creator_id IN (?)", bun.In(ids)).
		OrderExpr("cs.created_at ASC, cs.id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load created card sets: %w", err)
	}
	for _, cs := range created {
		if p := byID[cs.CreatorID]; p != nil {
			p.CreatedCardSets = append(p.CreatedCardSets, cs.ID)
		}
	}

	var likes []database.CardSetLike
	if err := r.db.NewSelect().
		Model(&likes).
		Where("l.user_id IN (?)", bun.In(ids)).
		OrderExpr("l.created_at ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load liked card sets: %w", err)
	}
	for _, l := range likes {
		if p := byID[l.UserID]; p != nil {
			p.LikedCardSets = append(p.LikedCardSets, l.CardSetID)
		}
	}

	var follows []database.Follow
	if err := r.db.NewSelect().
		Model(&follows).
		Where("f.follower_id IN (?) OR f.followee_id IN (?)", bun.In(ids), bun.In(ids)).
		OrderExpr("f.created_at ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load follows: %w", err)
	}
	for _, f := range follows {
		if p := byID[f.FollowerID]; p != nil {
			p.Following = append(p.Following, f.FolloweeID)
		}
		if p := byID[f.FolloweeID]; p != nil {
			p.Followers = append(p.Followers, f.FollowerID)
		}
	}

	return profiles, nil
}

func requireOneRow(result interface{ RowsAffected() (int64, error) }) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:           dbu.ID,
		Username:     dbu.Username,
		Email:        dbu.Email,
		PasswordHash: dbu.PasswordHash,
		Verified:     dbu.Verified,
		CreatedAt:    dbu.CreatedAt,
		UpdatedAt:    dbu.UpdatedAt,
	}
}
