package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/athena-api/cmd/athena-admin/ui"
	"github.com/redmonkez12/athena-api/internal/auth"
	"github.com/redmonkez12/athena-api/internal/database/dbtest"
	"github.com/redmonkez12/athena-api/internal/user"
)

func TestCreateUser(t *testing.T) {
	db := dbtest.New(t)
	users := user.NewRepository(db)
	hasher := auth.NewArgon2Hasher(64, 1)
	ctx := context.Background()

	u, err := createUser(ctx, users, hasher, &ui.NewUser{
		Username: " admin ",
		Email:    "Admin@Example.com",
		Password: "correct horse",
		Verified: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.True(t, u.Verified)

	stored, err := users.GetByLogin(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, stored.Verified)
	assert.True(t, hasher.Verify(stored.PasswordHash, "correct horse"))

	_, err = createUser(ctx, users, hasher, &ui.NewUser{Username: "other", Email: "admin@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)

	_, err = createUser(ctx, users, hasher, &ui.NewUser{Username: "short", Email: "short@example.com", Password: "abc"})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestNewUser_Complete(t *testing.T) {
	assert.False(t, (&ui.NewUser{Username: "a", Email: "a@b.io"}).Complete())
	assert.True(t, (&ui.NewUser{Username: "a", Email: "a@b.io", Password: "x"}).Complete())
}
