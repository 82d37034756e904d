package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type index struct {
	model   any
	name    string
	columns []string
}

var indexes = []index{
	{(*CardSet)(nil), "idx_card_sets_creator_id", []string{"creator_id"}},
	{(*CardSet)(nil), "idx_card_sets_created_at", []string{"created_at"}},
	{(*Follow)(nil), "idx_follows_followee_id", []string{"followee_id"}},
	{(*CardSetLike)(nil), "idx_card_set_likes_card_set_id", []string{"card_set_id"}},
	{(*User)(nil), "idx_users_created_at", []string{"created_at"}},
}

// CreateSchema creates every table and index if missing. It works on both the
// Postgres and SQLite dialects.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*CardSet)(nil)).
		IfNotExists().
		ForeignKey(`("creator_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create card_sets table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*Follow)(nil)).
		IfNotExists().
		ForeignKey(`("follower_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		ForeignKey(`("followee_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create follows table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*CardSetLike)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		ForeignKey(`("card_set_id") REFERENCES "card_sets" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create card_set_likes table: %w", err)
	}

	for _, idx := range indexes {
		if _, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// DropSchema drops every table, children first.
func DropSchema(ctx context.Context, db bun.IDB) error {
	models := []any{(*CardSetLike)(nil), (*Follow)(nil), (*CardSet)(nil), (*User)(nil)}
	for _, m := range models {
		if _, err := db.NewDropTable().Model(m).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
