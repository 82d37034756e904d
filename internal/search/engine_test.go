package search

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/athena-api/internal/database"
	"github.com/redmonkez12/athena-api/internal/database/dbtest"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fixture:
//
//	ana creates "Capitals" (t0+1h) and "algebra" (t0+2h); bob creates "Verbs" (t0+3h)
//	bob and cleo like "Capitals"; ana likes "Verbs"
//	ana follows bob; cleo follows bob and ana
type fixture struct {
	db                       *bun.DB
	ana, bob, cleo           *database.User
	capitals, algebra, verbs *database.CardSet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.New(t)
	f := &fixture{db: db}
	f.ana = dbtest.InsertUser(t, db, "ana", t0)
	f.bob = dbtest.InsertUser(t, db, "bob", t0.Add(time.Minute))
	f.cleo = dbtest.InsertUser(t, db, "cleo", t0.Add(2*time.Minute))

	f.capitals = dbtest.InsertCardSet(t, db, f.ana.ID, "Capitals", t0.Add(time.Hour))
	f.algebra = dbtest.InsertCardSet(t, db, f.ana.ID, "algebra", t0.Add(2*time.Hour))
	f.verbs = dbtest.InsertCardSet(t, db, f.bob.ID, "Verbs", t0.Add(3*time.Hour))

	dbtest.Like(t, db, f.bob.ID, f.capitals.ID, t0.Add(4*time.Hour))
	dbtest.Like(t, db, f.cleo.ID, f.capitals.ID, t0.Add(5*time.Hour))
	dbtest.Like(t, db, f.ana.ID, f.verbs.ID, t0.Add(6*time.Hour))

	dbtest.Follow(t, db, f.ana.ID, f.bob.ID, t0.Add(7*time.Hour))
	dbtest.Follow(t, db, f.cleo.ID, f.bob.ID, t0.Add(8*time.Hour))
	dbtest.Follow(t, db, f.cleo.ID, f.ana.ID, t0.Add(9*time.Hour))
	return f
}

func setIDs(r *Result) []uuid.UUID {
	ids := make([]uuid.UUID, len(r.CardSets))
	for i, s := range r.CardSets {
		ids[i] = s.ID
	}
	return ids
}

func userIDs(r *Result) []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Users))
	for i, u := range r.Users {
		ids[i] = u.ID
	}
	return ids
}

func TestEngine_CardSets(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(f.db)
	ctx := context.Background()

	tests := []struct {
		name  string
		query Query
		want  []uuid.UUID
	}{
		{
			name:  "global recency, empty text matches all",
			query: Query{Kind: KindCardSet, Sort: SortRecency},
			want:  []uuid.UUID{f.verbs.ID, f.algebra.ID, f.capitals.ID},
		},
		{
			name:  "global popularity",
			query: Query{Kind: KindCardSet, Sort: SortPopularity},
			want:  []uuid.UUID{f.capitals.ID, f.verbs.ID, f.algebra.ID},
		},
		{
			name:  "by creator alphabetical",
			query: Query{Kind: KindCardSet, Scopes: []Scope{{ScopeByCreator, f.ana.ID}}, Sort: SortAlphabetical},
			want:  []uuid.UUID{f.capitals.ID, f.algebra.ID},
		},
		{
			name:  "case-insensitive text",
			query: Query{Kind: KindCardSet, Text: "CAP", Sort: SortRecency},
			want:  []uuid.UUID{f.capitals.ID},
		},
		{
			name:  "liked by",
			query: Query{Kind: KindCardSet, Scopes: []Scope{{ScopeByLikedBy, f.cleo.ID}}, Sort: SortRecency},
			want:  []uuid.UUID{f.capitals.ID},
		},
		{
			name:  "created by following",
			query: Query{Kind: KindCardSet, Scopes: []Scope{{ScopeByFollowingOf, f.cleo.ID}}, Sort: SortRecency},
			want:  []uuid.UUID{f.verbs.ID, f.algebra.ID, f.capitals.ID},
		},
		{
			name:  "created by followers",
			query: Query{Kind: KindCardSet, Scopes: []Scope{{ScopeByFollowersOf, f.bob.ID}}, Sort: SortRecency},
			want:  []uuid.UUID{f.algebra.ID, f.capitals.ID},
		},
		{
			name: "scopes are combined",
			query: Query{Kind: KindCardSet, Scopes: []Scope{
				{ScopeByFollowingOf, f.cleo.ID},
				{ScopeByLikedBy, f.cleo.ID},
			}, Sort: SortRecency},
			want: []uuid.UUID{f.capitals.ID},
		},
		{
			name:  "global scope is a no-op",
			query: Query{Kind: KindCardSet, Scopes: []Scope{{Kind: ScopeGlobal}}, Text: "verb", Sort: SortRecency},
			want:  []uuid.UUID{f.verbs.ID},
		},
		{
			name:  "no match",
			query: Query{Kind: KindCardSet, Text: "zzz", Sort: SortRecency},
			want:  []uuid.UUID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, setIDs(res))
		})
	}
}

func TestEngine_CardSetsAreHydrated(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(f.db)

	res, err := e.Search(context.Background(), Query{Kind: KindCardSet, Text: "capitals", Sort: SortRecency})
	require.NoError(t, err)
	require.Len(t, res.CardSets, 1)
	assert.Equal(t, []uuid.UUID{f.bob.ID, f.cleo.ID}, res.CardSets[0].LikedBy)
	assert.Equal(t, f.ana.ID, res.CardSets[0].Creator)
	assert.NotEmpty(t, res.CardSets[0].Cards)
}

func TestEngine_TextIsLiteral(t *testing.T) {
	db := dbtest.New(t)
	u := dbtest.InsertUser(t, db, "u", t0)
	pct := dbtest.InsertCardSet(t, db, u.ID, "100% French", t0)
	dbtest.InsertCardSet(t, db, u.ID, "1000 French words", t0.Add(time.Minute))
	under := dbtest.InsertCardSet(t, db, u.ID, "snake_case", t0.Add(2*time.Minute))
	dbtest.InsertCardSet(t, db, u.ID, "snakeXcase", t0.Add(3*time.Minute))
	bang := dbtest.InsertCardSet(t, db, u.ID, "wow!", t0.Add(4*time.Minute))

	e := NewEngine(db)
	ctx := context.Background()

	for text, want := range map[string]uuid.UUID{"0%": pct.ID, "e_c": under.ID, "w!": bang.ID} {
		res, err := e.Search(ctx, Query{Kind: KindCardSet, Text: text, Sort: SortRecency})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{want}, setIDs(res), text)
	}
}

func TestEngine_Users(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(f.db)
	ctx := context.Background()

	tests := []struct {
		name  string
		query Query
		want  []uuid.UUID
	}{
		{"global recency", Query{Kind: KindUser, Sort: SortRecency}, []uuid.UUID{f.cleo.ID, f.bob.ID, f.ana.ID}},
		{"global popularity", Query{Kind: KindUser, Sort: SortPopularity}, []uuid.UUID{f.bob.ID, f.ana.ID, f.cleo.ID}},
		{"alphabetical with text", Query{Kind: KindUser, Text: "o", Sort: SortAlphabetical}, []uuid.UUID{f.bob.ID, f.cleo.ID}},
		{"following of", Query{Kind: KindUser, Scopes: []Scope{{ScopeByFollowingOf, f.cleo.ID}}, Sort: SortAlphabetical}, []uuid.UUID{f.ana.ID, f.bob.ID}},
		{"followers of", Query{Kind: KindUser, Scopes: []Scope{{ScopeByFollowersOf, f.bob.ID}}, Sort: SortPopularity}, []uuid.UUID{f.ana.ID, f.cleo.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, userIDs(res))
		})
	}

	res, err := e.Search(ctx, Query{Kind: KindUser, Text: "bob", Sort: SortRecency})
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, []uuid.UUID{f.ana.ID, f.cleo.ID}, res.Users[0].Followers)
	assert.Equal(t, []uuid.UUID{f.verbs.ID}, res.Users[0].CreatedCardSets)
}

func TestEngine_InvalidQueries(t *testing.T) {
	e := NewEngine(dbtest.New(t))
	ctx := context.Background()

	_, err := e.Search(ctx, Query{Kind: KindUser, Scopes: []Scope{{ScopeByCreator, uuid.New()}}, Sort: SortRecency})
	assert.ErrorIs(t, err, ErrInvalidScope)

	_, err = e.Search(ctx, Query{Kind: KindCardSet, Scopes: []Scope{{Kind: ScopeByLikedBy}}, Sort: SortRecency})
	assert.ErrorIs(t, err, ErrInvalidScope)

	_, err = e.Search(ctx, Query{Kind: KindCardSet, Sort: "newest"})
	assert.ErrorIs(t, err, ErrInvalidSort)

	_, err = e.Search(ctx, Query{Kind: "deck", Sort: SortRecency})
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = e.Concat(ctx, Query{Kind: KindUser, Sort: SortRecency}, Query{Kind: KindCardSet, Sort: SortRecency})
	assert.ErrorIs(t, err, ErrMixedKinds)
}

func TestEngine_ConcatKeepsOrderAndDuplicates(t *testing.T) {
	f := newFixture(t)
	e := NewEngine(f.db)

	// ana likes her own set too, so it shows up in both parts
	dbtest.Like(t, f.db, f.ana.ID, f.capitals.ID, t0.Add(10*time.Hour))

	res, err := e.Concat(context.Background(),
		Query{Kind: KindCardSet, Scopes: []Scope{{ScopeByLikedBy, f.ana.ID}}, Sort: SortAlphabetical},
		Query{Kind: KindCardSet, Scopes: []Scope{{ScopeByCreator, f.ana.ID}}, Sort: SortAlphabetical},
	)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.capitals.ID, f.verbs.ID, f.capitals.ID, f.algebra.ID}, setIDs(res))
}
