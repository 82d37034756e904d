package search

import (
	"fmt"

	"github.com/google/uuid"
)

// Subject names whose id fills a scope in a legacy route.
type Subject int

const (
	// SubjectBody is the UserId field of the request body.
	SubjectBody Subject = iota
	// SubjectCaller is the authenticated caller.
	SubjectCaller
)

// ScopeTemplate is a scope whose user id is bound per request.
type ScopeTemplate struct {
	Kind    ScopeKind
	Subject Subject
}

// Recipe maps one legacy endpoint to fixed queries. Each entry of Parts is
// one query (its scopes ANDed); several parts are concatenated in order.
type Recipe struct {
	Path        string
	Kind        Kind
	Sort        Sort
	Parts       [][]ScopeTemplate
	RequireAuth bool
}

// NeedsBodyUser reports whether the route reads UserId from the body.
func (rc Recipe) NeedsBodyUser() bool {
	for _, part := range rc.Parts {
		for _, st := range part {
			if st.Subject == SubjectBody {
				return true
			}
		}
	}
	return false
}

// Queries binds the recipe to a request.
func (rc Recipe) Queries(text string, bodyUser, caller uuid.UUID) ([]Query, error) {
	queries := make([]Query, 0, len(rc.Parts))
	for _, part := range rc.Parts {
		q := Query{Kind: rc.Kind, Text: text, Sort: rc.Sort, Scopes: make([]Scope, 0, len(part))}
		for _, st := range part {
			id := bodyUser
			if st.Subject == SubjectCaller {
				id = caller
			}
			if id == uuid.Nil {
				return nil, fmt.Errorf("%w: %s needs a user id", ErrInvalidScope, rc.Path)
			}
			q.Scopes = append(q.Scopes, Scope{Kind: st.Kind, UserID: id})
		}
		queries = append(queries, q)
	}
	return queries, nil
}

var (
	global = [][]ScopeTemplate{{}}

	createdByBody     = [][]ScopeTemplate{{{ScopeByCreator, SubjectBody}}}
	likedByBody       = [][]ScopeTemplate{{{ScopeByLikedBy, SubjectBody}}}
	followingOfBody   = [][]ScopeTemplate{{{ScopeByFollowingOf, SubjectBody}}}
	followersOfBody   = [][]ScopeTemplate{{{ScopeByFollowersOf, SubjectBody}}}
	likedThenCreated  = [][]ScopeTemplate{{{ScopeByLikedBy, SubjectCaller}}, {{ScopeByCreator, SubjectCaller}}}
	followingAndLiked = [][]ScopeTemplate{{{ScopeByFollowingOf, SubjectBody}, {ScopeByLikedBy, SubjectBody}}}
	bodyUserLikedByMe = [][]ScopeTemplate{{{ScopeByCreator, SubjectBody}, {ScopeByLikedBy, SubjectCaller}}}
)

// LegacyRoutes lists every search endpoint the web client calls.
var LegacyRoutes = []Recipe{
	{Path: "/searchsetglobaldate", Kind: KindCardSet, Sort: SortRecency, Parts: global},
	{Path: "/searchsetgloballikes", Kind: KindCardSet, Sort: SortPopularity, Parts: global},
	{Path: "/searchsetuserdate", Kind: KindCardSet, Sort: SortRecency, Parts: createdByBody},
	{Path: "/searchsetuserlikes", Kind: KindCardSet, Sort: SortPopularity, Parts: createdByBody},
	{Path: "/searchsetuseralpha", Kind: KindCardSet, Sort: SortAlphabetical, Parts: createdByBody},
	{Path: "/searchsetfollowingdate", Kind: KindCardSet, Sort: SortRecency, Parts: followingOfBody},
	{Path: "/searchsetfollowingandlikeddate", Kind: KindCardSet, Sort: SortRecency, Parts: followingAndLiked},
	{Path: "/searchsetuserlikeddate", Kind: KindCardSet, Sort: SortRecency, Parts: bodyUserLikedByMe, RequireAuth: true},
	{Path: "/searchsetlikeddate", Kind: KindCardSet, Sort: SortRecency, Parts: likedByBody},
	{Path: "/searchsetlikedlikes", Kind: KindCardSet, Sort: SortPopularity, Parts: likedByBody},
	{Path: "/searchsetlikedalpha", Kind: KindCardSet, Sort: SortAlphabetical, Parts: likedByBody},
	{Path: "/searchuserglobaldate", Kind: KindUser, Sort: SortRecency, Parts: global},
	{Path: "/searchuserglobalfollowers", Kind: KindUser, Sort: SortPopularity, Parts: global},
	{Path: "/searchuserglobalalpha", Kind: KindUser, Sort: SortAlphabetical, Parts: global},
	{Path: "/searchuserfollowersfollowers", Kind: KindUser, Sort: SortPopularity, Parts: followersOfBody},
	{Path: "/searchuserfollowersalpha", Kind: KindUser, Sort: SortAlphabetical, Parts: followersOfBody},
	{Path: "/searchuserfollowingfollowers", Kind: KindUser, Sort: SortPopularity, Parts: followingOfBody},
	{Path: "/searchuserfollowingalpha", Kind: KindUser, Sort: SortAlphabetical, Parts: followingOfBody},
	{Path: "/searchuserneedsalpha", Kind: KindCardSet, Sort: SortAlphabetical, Parts: likedThenCreated, RequireAuth: true},
	{Path: "/searchuserneedsdate", Kind: KindCardSet, Sort: SortRecency, Parts: likedThenCreated, RequireAuth: true},
	{Path: "/searchuserneedslikes", Kind: KindCardSet, Sort: SortPopularity, Parts: likedThenCreated, RequireAuth: true},
}
