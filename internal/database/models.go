package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the users table row. The relation lists exposed by the API
// (created sets, likes, follows) are projections of CardSet, CardSetLike and
// Follow rows.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Username     string    `bun:"username,notnull,unique"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Verified     bool      `bun:"verified,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

// Card is one question/answer pair. Cards are stored as a JSON array on the
// owning card set, in display order.
type Card struct {
	Question string `json:"Question"`
	Answer   string `json:"Answer"`
}

type CardSet struct {
	bun.BaseModel `bun:"table:card_sets,alias:cs"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	CreatorID uuid.UUID `bun:"creator_id,notnull,type:uuid"`
	Cards     []Card    `bun:"cards,type:jsonb,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Follow records that FollowerID follows FolloweeID. The composite primary
// key makes the relation a set.
type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:f"`

	FollowerID uuid.UUID `bun:"follower_id,pk,type:uuid"`
	FolloweeID uuid.UUID `bun:"followee_id,pk,type:uuid"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}

// CardSetLike records that UserID likes CardSetID.
type CardSetLike struct {
	bun.BaseModel `bun:"table:card_set_likes,alias:l"`

	UserID    uuid.UUID `bun:"user_id,pk,type:uuid"`
	CardSetID uuid.UUID `bun:"card_set_id,pk,type:uuid"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}
