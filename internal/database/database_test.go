package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/athena-api/internal/database"
	"github.com/redmonkez12/athena-api/internal/database/dbtest"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	db := dbtest.New(t)
	require.NoError(t, database.CreateSchema(context.Background(), db))
}

func TestCardSet_CardsRoundTripInOrder(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	now := time.Now()

	owner := dbtest.InsertUser(t, db, "owner", now)
	cs := &database.CardSet{
		ID:        uuid.New(),
		Name:      "Capitals",
		CreatorID: owner.ID,
		Cards: []database.Card{
			{Question: "FR", Answer: "Paris"},
			{Question: "DE", Answer: "Berlin"},
		},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	_, err := db.NewInsert().Model(cs).Exec(ctx)
	require.NoError(t, err)

	got := new(database.CardSet)
	require.NoError(t, db.NewSelect().Model(got).Where("cs.id = ?", cs.ID).Scan(ctx))
	assert.Equal(t, cs.Cards, got.Cards)
	assert.Equal(t, owner.ID, got.CreatorID)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.RunInTx(ctx, db, func(ctx context.Context, tx bun.Tx) error {
		dbtest.InsertUser(t, tx, "ghost", time.Now())
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := db.NewSelect().Model((*database.User)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunInTx_Commits(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	err := database.RunInTx(ctx, db, func(ctx context.Context, tx bun.Tx) error {
		dbtest.InsertUser(t, tx, "kept", time.Now())
		return nil
	})
	require.NoError(t, err)

	n, err := db.NewSelect().Model((*database.User)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIsUniqueViolation(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	u := dbtest.InsertUser(t, db, "dup", time.Now())
	clone := *u
	clone.ID = uuid.New()

	_, err := db.NewInsert().Model(&clone).Exec(ctx)
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsUniqueViolation(nil))
}

func TestDropSchema(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, database.DropSchema(ctx, db))
	_, err := db.NewSelect().Model((*database.User)(nil)).Count(ctx)
	assert.Error(t, err)
}
