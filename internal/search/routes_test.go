package search

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyRoutes_Table(t *testing.T) {
	require.Len(t, LegacyRoutes, 21)

	seen := make(map[string]bool)
	for _, rc := range LegacyRoutes {
		assert.False(t, seen[rc.Path], "duplicate route %s", rc.Path)
		seen[rc.Path] = true

		usesCaller := false
		for _, part := range rc.Parts {
			for _, st := range part {
				if st.Subject == SubjectCaller {
					usesCaller = true
				}
			}
		}
		assert.Equal(t, usesCaller, rc.RequireAuth, rc.Path)
	}
}

func TestRecipe_Queries(t *testing.T) {
	body, caller := uuid.New(), uuid.New()

	byPath := make(map[string]Recipe)
	for _, rc := range LegacyRoutes {
		byPath[rc.Path] = rc
	}

	qs, err := byPath["/searchuserneedsdate"].Queries("fr", uuid.Nil, caller)
	require.NoError(t, err)
	assert.Equal(t, []Query{
		{Kind: KindCardSet, Text: "fr", Sort: SortRecency, Scopes: []Scope{{ScopeByLikedBy, caller}}},
		{Kind: KindCardSet, Text: "fr", Sort: SortRecency, Scopes: []Scope{{ScopeByCreator, caller}}},
	}, qs)
	assert.False(t, byPath["/searchuserneedsdate"].NeedsBodyUser())

	qs, err = byPath["/searchsetuserlikeddate"].Queries("", body, caller)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, []Scope{{ScopeByCreator, body}, {ScopeByLikedBy, caller}}, qs[0].Scopes)

	qs, err = byPath["/searchuserglobalalpha"].Queries("x", uuid.Nil, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, []Query{{Kind: KindUser, Text: "x", Sort: SortAlphabetical, Scopes: []Scope{}}}, qs)

	_, err = byPath["/searchsetlikeddate"].Queries("", uuid.Nil, caller)
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestParseScopeKindAndSort(t *testing.T) {
	k, err := ParseScopeKind("FOLLOWINGOF")
	require.NoError(t, err)
	assert.Equal(t, ScopeByFollowingOf, k)

	_, err = ParseScopeKind("friends")
	assert.ErrorIs(t, err, ErrInvalidScope)

	s, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortRecency, s)

	s, err = ParseSort("Popularity")
	require.NoError(t, err)
	assert.Equal(t, SortPopularity, s)

	_, err = ParseSort("random")
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%abc%", likePattern("ABC"))
	assert.Equal(t, "%50!% off!!!_now%", likePattern("50% off!_now"))
}
