package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind selects the entity being searched.
type Kind string

const (
	KindCardSet Kind = "cardset"
	KindUser    Kind = "user"
)

// ScopeKind narrows the candidates relative to a user.
type ScopeKind string

const (
	ScopeGlobal        ScopeKind = "global"
	ScopeByCreator     ScopeKind = "creator"
	ScopeByLikedBy     ScopeKind = "likedBy"
	ScopeByFollowingOf ScopeKind = "followingOf"
	ScopeByFollowersOf ScopeKind = "followersOf"
)

// Sort orders the results.
type Sort string

const (
	SortRecency      Sort = "recency"
	SortPopularity   Sort = "popularity"
	SortAlphabetical Sort = "alphabetical"
)

var (
	ErrInvalidScope = errors.New("invalid search scope")
	ErrInvalidSort  = errors.New("invalid search sort")
	ErrInvalidKind  = errors.New("invalid search kind")
	ErrMixedKinds   = errors.New("concatenated queries must share one kind")
)

// Scope is one filter; a query's scopes are combined with AND.
type Scope struct {
	Kind   ScopeKind
	UserID uuid.UUID
}

// Query describes one search: which entity, which filters, which text and
// which order.
type Query struct {
	Kind   Kind
	Scopes []Scope
	Text   string
	Sort   Sort
}

// Validate checks that every scope applies to the query kind.
func (q Query) Validate() error {
	if q.Kind != KindCardSet && q.Kind != KindUser {
		return fmt.Errorf("%w: %q", ErrInvalidKind, q.Kind)
	}

	switch q.Sort {
	case SortRecency, SortPopularity, SortAlphabetical:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSort, q.Sort)
	}

	for _, s := range q.Scopes {
		switch s.Kind {
		case ScopeGlobal:
			continue
		case ScopeByFollowingOf, ScopeByFollowersOf:
		case ScopeByCreator, ScopeByLikedBy:
			if q.Kind == KindUser {
				return fmt.Errorf("%w: %s does not apply to users", ErrInvalidScope, s.Kind)
			}
		default:
			return fmt.Errorf("%w: %q", ErrInvalidScope, s.Kind)
		}
		if s.UserID == uuid.Nil {
			return fmt.Errorf("%w: %s needs a user id", ErrInvalidScope, s.Kind)
		}
	}
	return nil
}

// ParseScopeKind accepts the wire names of scope kinds, case-insensitively.
func ParseScopeKind(s string) (ScopeKind, error) {
	for _, k := range []ScopeKind{ScopeGlobal, ScopeByCreator, ScopeByLikedBy, ScopeByFollowingOf, ScopeByFollowersOf} {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidScope, s)
}

// ParseSort accepts the wire names of sorts; empty means recency.
func ParseSort(s string) (Sort, error) {
	if s == "" {
		return SortRecency, nil
	}
	for _, v := range []Sort{SortRecency, SortPopularity, SortAlphabetical} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
}

// likePattern turns free text into a case-insensitive substring pattern for
// LIKE ... ESCAPE '!'.
func likePattern(text string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(text)) + "%"
}
