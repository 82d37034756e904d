package social

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/athena-api/internal/cardset"
	"github.com/redmonkez12/athena-api/internal/database"
	"github.com/redmonkez12/athena-api/internal/user"
)

var (
	ErrFollowerNotFound = errors.New("follower not found")
	ErrFolloweeNotFound = errors.New("user to follow not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrCardSetNotFound  = errors.New("card set not found")
	ErrSelfFollow       = errors.New("users cannot follow themselves")
)

// Service keeps both sides of the follow and like relations consistent. Each
// operation checks its endpoints and mutates inside one transaction.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// Follow makes followerID follow followeeID. Following twice is a no-op.
func (s *Service) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}

	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if err := requireUsers(ctx, tx, followerID, followeeID); err != nil {
			return err
		}
		return NewRepository(tx).AddFollow(ctx, followerID, followeeID)
	})
}

// Unfollow removes the relation; an absent relation is a no-op.
func (s *Service) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if err := requireUsers(ctx, tx, followerID, followeeID); err != nil {
			return err
		}
		return NewRepository(tx).RemoveFollow(ctx, followerID, followeeID)
	})
}

// Like records that userID likes setID. Liking twice is a no-op.
func (s *Service) Like(ctx context.Context, userID, setID uuid.UUID) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if err := requireUserAndSet(ctx, tx, userID, setID); err != nil {
			return err
		}
		return NewRepository(tx).AddLike(ctx, userID, setID)
	})
}

// Unlike removes the like; an absent like is a no-op.
func (s *Service) Unlike(ctx context.Context, userID, setID uuid.UUID) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if err := requireUserAndSet(ctx, tx, userID, setID); err != nil {
			return err
		}
		return NewRepository(tx).RemoveLike(ctx, userID, setID)
	})
}

func requireUsers(ctx context.Context, tx bun.Tx, followerID, followeeID uuid.UUID) error {
	users := user.NewRepository(tx)

	ok, err := users.Exists(ctx, followerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFollowerNotFound
	}

	ok, err = users.Exists(ctx, followeeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFolloweeNotFound
	}
	return nil
}

func requireUserAndSet(ctx context.Context, tx bun.Tx, userID, setID uuid.UUID) error {
	ok, err := user.NewRepository(tx).Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}

	ok, err = cardset.NewRepository(tx).Exists(ctx, setID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCardSetNotFound
	}
	return nil
}
