package search

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/redmonkez12/athena-api/internal/auth"
	"github.com/redmonkez12/athena-api/internal/httputil"
	"github.com/redmonkez12/athena-api/internal/logging"
)

// Handler serves the search endpoints
type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// ScopeRequest is one filter of a search request
type ScopeRequest struct {
	Kind   string `json:"Kind" validate:"required"`
	UserID string `json:"UserId" validate:"omitempty,uuid"`
}

// SearchRequest is the body of /search/sets and /search/users
type SearchRequest struct {
	Search string         `json:"Search"`
	Scopes []ScopeRequest `json:"Scopes" validate:"dive"`
	Sort   string         `json:"Sort"`
}

// LegacySearchRequest is the body of the /searchset* and /searchuser* routes
type LegacySearchRequest struct {
	Search string `json:"Search"`
	UserID string `json:"UserId" validate:"omitempty,uuid"`
}

// SearchSets searches card sets
// @Summary      Search card sets
// @Description  Scopes are ANDed; a scope without UserId applies to the caller when authenticated
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        request body SearchRequest true "Search parameters"
// @Success      200 {array} cardset.CardSet
// @Failure      400 {object} httputil.ErrorResponse "Invalid scope or sort"
// @Router       /search/sets [post]
func (h *Handler) SearchSets(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, KindCardSet)
}

// SearchUsers searches users
// @Summary      Search users
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        request body SearchRequest true "Search parameters"
// @Success      200 {array} user.Profile
// @Failure      400 {object} httputil.ErrorResponse "Invalid scope or sort"
// @Router       /search/users [post]
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, KindUser)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, kind Kind) {
	var req SearchRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	q, err := buildQuery(req, kind, r)
	if err != nil {
		respondSearchError(w, r, err)
		return
	}

	res, err := h.engine.Search(r.Context(), q)
	if err != nil {
		respondSearchError(w, r, err)
		return
	}

	httputil.RespondJSON(w, res.Items(), http.StatusOK)
}

// Legacy returns the handler for one fixed search route.
func (h *Handler) Legacy(recipe Recipe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LegacySearchRequest
		if !httputil.DecodeAndValidate(w, r, &req) {
			return
		}

		var bodyUser uuid.UUID
		if req.UserID != "" {
			bodyUser = uuid.MustParse(req.UserID)
		}
		if recipe.NeedsBodyUser() && bodyUser == uuid.Nil {
			httputil.RespondValidationError(w, map[string]string{"UserId": "The UserId field is required."})
			return
		}
		caller, _ := auth.GetUserIDFromContext(r.Context())

		queries, err := recipe.Queries(req.Search, bodyUser, caller)
		if err != nil {
			respondSearchError(w, r, err)
			return
		}

		var res *Result
		if len(queries) == 1 {
			res, err = h.engine.Search(r.Context(), queries[0])
		} else {
			res, err = h.engine.Concat(r.Context(), queries...)
		}
		if err != nil {
			respondSearchError(w, r, err)
			return
		}

		logging.GetLoggerFromContext(r.Context()).Debug("legacy search", "route", recipe.Path, "results", res.Len())
		httputil.RespondJSON(w, res.Items(), http.StatusOK)
	}
}

func buildQuery(req SearchRequest, kind Kind, r *http.Request) (Query, error) {
	sort, err := ParseSort(req.Sort)
	if err != nil {
		return Query{}, err
	}

	caller, _ := auth.GetUserIDFromContext(r.Context())

	q := Query{Kind: kind, Text: req.Search, Sort: sort}
	for _, sr := range req.Scopes {
		scopeKind, err := ParseScopeKind(sr.Kind)
		if err != nil {
			return Query{}, err
		}

		id := caller
		if sr.UserID != "" {
			id = uuid.MustParse(sr.UserID)
		}
		q.Scopes = append(q.Scopes, Scope{Kind: scopeKind, UserID: id})
	}
	return q, nil
}

func respondSearchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidScope), errors.Is(err, ErrInvalidKind), errors.Is(err, ErrMixedKinds):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidScope, http.StatusBadRequest)
	case errors.Is(err, ErrInvalidSort):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidSort, http.StatusBadRequest)
	default:
		logging.GetLoggerFromContext(r.Context()).Error("search failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "search failed", httputil.CodeInternalError, http.StatusInternalServerError)
	}
}
