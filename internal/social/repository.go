package social

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/athena-api/internal/database"
)

// Repository stores follow and like relations. Both tables are keyed by the
// pair, so inserting an existing relation is a no-op.
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

func (r *Repository) AddFollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	_, err := r.db.NewInsert().
		Model(&database.Follow{
			FollowerID: followerID,
			FolloweeID: followeeID,
			CreatedAt:  time.Now().UTC(),
		}).
		On("CONFLICT (follower_id, followee_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert follow: %w", err)
	}
	return nil
}

func (r *Repository) RemoveFollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*database.Follow)(nil)).
		Where("follower_id = ?", followerID).
		Where("followee_id = ?", followeeID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

func (r *Repository) AddLike(ctx context.Context, userID, setID uuid.UUID) error {
	_, err := r.db.NewInsert().
		Model(&database.CardSetLike{
			UserID:    userID,
			CardSetID: setID,
			CreatedAt: time.Now().UTC(),
		}).
		On("CONFLICT (user_id, card_set_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

func (r *Repository) RemoveLike(ctx context.Context, userID, setID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*database.CardSetLike)(nil)).
		Where("user_id = ?", userID).
		Where("card_set_id = ?", setID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}
