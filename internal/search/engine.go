package search

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"

	"github.com/redmonkez12/athena-api/internal/cardset"
	"github.com/redmonkez12/athena-api/internal/database"
	"github.com/redmonkez12/athena-api/internal/user"
)

// Result holds the hydrated matches of a search. Only the slice matching
// Kind is set.
type Result struct {
	Kind     Kind
	CardSets []cardset.CardSet
	Users    []user.Profile
}

// Items returns the populated slice, never nil.
func (r *Result) Items() any {
	if r.Kind == KindUser {
		if r.Users == nil {
			return []user.Profile{}
		}
		return r.Users
	}
	if r.CardSets == nil {
		return []cardset.CardSet{}
	}
	return r.CardSets
}

// Len returns the number of matches.
func (r *Result) Len() int {
	return len(r.CardSets) + len(r.Users)
}

// Engine runs parameterized searches over card sets and users.
type Engine struct {
	db    bun.IDB
	sets  *cardset.Repository
	users *user.Repository
}

func NewEngine(db bun.IDB) *Engine {
	return &Engine{
		db:    db,
		sets:  cardset.NewRepository(db),
		users: user.NewRepository(db),
	}
}

// Search runs one query.
func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if q.Kind == KindUser {
		profiles, err := e.searchUsers(ctx, q)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: KindUser, Users: profiles}, nil
	}

	sets, err := e.searchCardSets(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Result{Kind: KindCardSet, CardSets: sets}, nil
}

// Concat runs the queries concurrently and concatenates their results in
// argument order. Duplicates across queries are kept.
func (e *Engine) Concat(ctx context.Context, queries ...Query) (*Result, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: no queries", ErrInvalidKind)
	}
	kind := queries[0].Kind
	for _, q := range queries[1:] {
		if q.Kind != kind {
			return nil, ErrMixedKinds
		}
	}

	parts := make([]*Result, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			res, err := e.Search(gctx, q)
			if err != nil {
				return err
			}
			parts[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{Kind: kind}
	for _, p := range parts {
		out.CardSets = append(out.CardSets, p.CardSets...)
		out.Users = append(out.Users, p.Users...)
	}
	return out, nil
}

func (e *Engine) searchCardSets(ctx context.Context, q Query) ([]cardset.CardSet, error) {
	var rows []database.CardSet
	sel := e.db.NewSelect().Model(&rows)

	for _, s := range q.Scopes {
		switch s.Kind {
		case ScopeByCreator:
			sel.Where("cs.creator_id = ?", s.UserID)
		case ScopeByLikedBy:
			sel.Where("cs.id IN (SELECT l.card_set_id FROM card_set_likes AS l WHERE l.user_id = ?)", s.UserID)
		case ScopeByFollowingOf:
			sel.Where("cs.creator_id IN (SELECT f.followee_id FROM follows AS f WHERE f.follower_id = ?)", s.UserID)
		case ScopeByFollowersOf:
			sel.Where("cs.creator_id IN (SELECT f.follower_id FROM follows AS f WHERE f.followee_id = ?)", s.UserID)
		}
	}

	if q.Text != "" {
		sel.Where("LOWER(cs.name) LIKE ? ESCAPE '!'", likePattern(q.Text))
	}

	switch q.Sort {
	case SortPopularity:
		sel.OrderExpr("(SELECT COUNT(*) FROM card_set_likes AS l WHERE l.card_set_id = cs.id) DESC, cs.created_at DESC")
	case SortAlphabetical:
		sel.OrderExpr("cs.name ASC, cs.created_at DESC")
	default:
		sel.OrderExpr("cs.created_at DESC, cs.name ASC")
	}

	if err := sel.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to search card sets: %w", err)
	}

	return e.sets.Hydrate(ctx, rows)
}

func (e *Engine) searchUsers(ctx context.Context, q Query) ([]user.Profile, error) {
	var rows []database.User
	sel := e.db.NewSelect().Model(&rows)

	for _, s := range q.Scopes {
		switch s.Kind {
		case ScopeByFollowingOf:
			sel.Where("u.id IN (SELECT f.followee_id FROM follows AS f WHERE f.follower_id = ?)", s.UserID)
		case ScopeByFollowersOf:
			sel.Where("u.id IN (SELECT f.follower_id FROM follows AS f WHERE f.followee_id = ?)", s.UserID)
		}
	}

	if q.Text != "" {
		sel.Where("LOWER(u.username) LIKE ? ESCAPE '!'", likePattern(q.Text))
	}

	switch q.Sort {
	case SortPopularity:
		sel.OrderExpr("(SELECT COUNT(*) FROM follows AS f WHERE f.followee_id = u.id) DESC, u.created_at DESC")
	case SortAlphabetical:
		sel.OrderExpr("u.username ASC")
	default:
		sel.OrderExpr("u.created_at DESC, u.username ASC")
	}

	if err := sel.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return e.users.Profiles(ctx, rows)
}
