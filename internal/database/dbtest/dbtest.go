// Package dbtest opens throwaway SQLite databases with the application schema
// for repository and service tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/athena-api/internal/database"
)

// New returns an in-memory database with the schema applied. It is closed
// when the test ends.
func New(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	sqlDB, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewSQLiteBunDB(sqlDB)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.CreateSchema(context.Background(), db))
	return db
}

// InsertUser stores a verified user and returns it.
func InsertUser(t *testing.T, db bun.IDB, username string, createdAt time.Time) *database.User {
	t.Helper()

	u := &database.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Verified:     true,
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    createdAt.UTC(),
	}
	_, err := db.NewInsert().Model(u).Exec(context.Background())
	require.NoError(t, err)
	return u
}

// InsertCardSet stores a card set owned by creator.
func InsertCardSet(t *testing.T, db bun.IDB, creator uuid.UUID, name string, createdAt time.Time) *database.CardSet {
	t.Helper()

	cs := &database.CardSet{
		ID:        uuid.New(),
		Name:      name,
		CreatorID: creator,
		Cards:     []database.Card{{Question: "Q", Answer: "A"}},
		CreatedAt: createdAt.UTC(),
		UpdatedAt: createdAt.UTC(),
	}
	_, err := db.NewInsert().Model(cs).Exec(context.Background())
	require.NoError(t, err)
	return cs
}

// Follow makes follower follow followee.
func Follow(t *testing.T, db bun.IDB, follower, followee uuid.UUID, at time.Time) {
	t.Helper()

	_, err := db.NewInsert().Model(&database.Follow{
		FollowerID: follower,
		FolloweeID: followee,
		CreatedAt:  at.UTC(),
	}).Exec(context.Background())
	require.NoError(t, err)
}

// Like makes user like the card set.
func Like(t *testing.T, db bun.IDB, user, set uuid.UUID, at time.Time) {
	t.Helper()

	_, err := db.NewInsert().Model(&database.CardSetLike{
		UserID:    user,
		CardSetID: set,
		CreatedAt: at.UTC(),
	}).Exec(context.Background())
	require.NoError(t, err)
}
