package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/athena-api/internal/database"
)

func newEmptyDB(t *testing.T) *bun.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewSQLiteBunDB(sqlDB)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(ctx context.Context, db *bun.DB, model any) bool {
	_, err := db.NewSelect().Model(model).Count(ctx)
	return err == nil
}

func TestUpAndDown(t *testing.T) {
	db := newEmptyDB(t)
	ctx := context.Background()
	m := NewMigrator(db)

	assert.False(t, tableExists(ctx, db, (*database.User)(nil)))

	group, err := Up(ctx, m)
	require.NoError(t, err)
	assert.False(t, group.IsZero())
	assert.True(t, tableExists(ctx, db, (*database.User)(nil)))
	assert.True(t, tableExists(ctx, db, (*database.CardSetLike)(nil)))

	ms, err := m.MigrationsWithStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, ms.Unapplied())

	// nothing pending the second time
	group, err = Up(ctx, m)
	require.NoError(t, err)
	assert.True(t, group.IsZero())

	group, err = Down(ctx, m)
	require.NoError(t, err)
	assert.False(t, group.IsZero())
	assert.False(t, tableExists(ctx, db, (*database.User)(nil)))
}
