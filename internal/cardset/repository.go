package cardset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/athena-api/internal/database"
)

// Repository handles card set persistence
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

// Insert stores a new card set owned by creatorID.
func (r *Repository) Insert(ctx context.Context, creatorID uuid.UUID, name string, cards []Card) (*CardSet, error) {
	now := time.Now().UTC()
	row := &database.CardSet{
		ID:        uuid.New(),
		Name:      name,
		CreatorID: creatorID,
		Cards:     toDBCards(cards),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to insert card set: %w", err)
	}

	sets, err := r.Hydrate(ctx, []database.CardSet{*row})
	if err != nil {
		return nil, err
	}
	return &sets[0], nil
}

// UpdateOwned replaces name and cards of the set only when creatorID owns it.
// It reports whether a row matched.
func (r *Repository) UpdateOwned(ctx context.Context, id, creatorID uuid.UUID, name string, cards []Card) (bool, error) {
	row := &database.CardSet{
		Name:      name,
		Cards:     toDBCards(cards),
		UpdatedAt: time.Now().UTC(),
	}

	result, err := r.db.NewUpdate().
		Model(row).
		Column("name", "cards", "updated_at").
		Where("id = ?", id).
		Where("creator_id = ?", creatorID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to update card set: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// GetRow returns the stored row, or ErrNotFound.
func (r *Repository) GetRow(ctx context.Context, id uuid.UUID) (*database.CardSet, error) {
	row := new(database.CardSet)
	err := r.db.NewSelect().
		Model(row).
		Where("cs.id = ?", id).
		Scan(ctx)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card set: %w", err)
	}
	return row, nil
}

// Get returns the card set with its LikedBy list.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*CardSet, error) {
	row, err := r.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}

	sets, err := r.Hydrate(ctx, []database.CardSet{*row})
	if err != nil {
		return nil, err
	}
	return &sets[0], nil
}

// Exists reports whether a card set with the given id exists.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := r.db.NewSelect().
		Model((*database.CardSet)(nil)).
		Where("cs.id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check card set: %w", err)
	}
	return ok, nil
}

// DeleteLikes removes every like of the set.
func (r *Repository) DeleteLikes(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Model((*database.CardSetLike)(nil)).
		Where("card_set_id = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete likes: %w", err)
	}
	return nil
}

// Delete removes the set row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.CardSet)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete card set: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Hydrate converts rows into card sets, loading LikedBy for all of them with
// a single query. Output order matches input order.
func (r *Repository) Hydrate(ctx context.Context, rows []database.CardSet) ([]CardSet, error) {
	sets := make([]CardSet, len(rows))
	if len(rows) == 0 {
		return sets, nil
	}

	ids := make([]uuid.UUID, len(rows))
	byID := make(map[uuid.UUID][]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
		sets[i] = CardSet{
			ID:        row.ID,
			Name:      row.Name,
			Creator:   row.CreatorID,
			Cards:     fromDBCards(row.Cards),
			LikedBy:   []uuid.UUID{},
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		byID[row.ID] = append(byID[row.ID], i)
	}

	var likes []database.CardSetLike
	if err := r.db.NewSelect().
		Model(&likes).
		Where("l.card_set_id IN (?)", bun.In(ids)).
		OrderExpr("l.created_at ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}
	for _, l := range likes {
		for _, i := range byID[l.CardSetID] {
			sets[i].LikedBy = append(sets[i].LikedBy, l.UserID)
		}
	}

	return sets, nil
}

func toDBCards(cards []Card) []database.Card {
	out := make([]database.Card, len(cards))
	for i, c := range cards {
		out[i] = database.Card{Question: c.Question, Answer: c.Answer}
	}
	return out
}

func fromDBCards(cards []database.Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = Card{Question: c.Question, Answer: c.Answer}
	}
	return out
}
