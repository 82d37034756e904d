package cardset

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/redmonkez12/athena-api/internal/auth"
	"github.com/redmonkez12/athena-api/internal/httputil"
	"github.com/redmonkez12/athena-api/internal/logging"
)

// Handler contains HTTP handlers for card set endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AddSetRequest is the body of /addset
type AddSetRequest struct {
	Name  string `json:"Name" validate:"required"`
	Cards []Card `json:"Cards"`
}

// AddSetResponse returns the new set id next to the legacy error field
type AddSetResponse struct {
	Error string    `json:"error"`
	ID    uuid.UUID `json:"_id"`
}

// EditSetRequest is the body of /editset
type EditSetRequest struct {
	ID    string `json:"_id" validate:"required,uuid"`
	Name  string `json:"Name" validate:"required"`
	Cards []Card `json:"Cards"`
}

// DeleteSetRequest is the body of /deleteset
type DeleteSetRequest struct {
	ID string `json:"_id" validate:"required,uuid"`
}

// InfoSetRequest is the body of /infoset
type InfoSetRequest struct {
	SetID string `json:"SetId" validate:"required,uuid"`
}

// AddSet creates a card set owned by the caller
// @Summary      Create a card set
// @Tags         cardsets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AddSetRequest true "Name and cards"
// @Success      200 {object} AddSetResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Missing token"
// @Router       /addset [post]
func (h *Handler) AddSet(w http.ResponseWriter, r *http.Request) {
	callerID, _ := auth.GetUserIDFromContext(r.Context())

	var req AddSetRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	set, err := h.service.Create(r.Context(), callerID, req.Name, req.Cards)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	httputil.RespondJSON(w, AddSetResponse{ID: set.ID}, http.StatusOK)
}

// EditSet replaces the name and cards of one of the caller's sets
// @Summary      Edit a card set
// @Tags         cardsets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body EditSetRequest true "Set id, name and cards"
// @Success      200 {object} httputil.ErrorResponse "error is empty"
// @Failure      403 {object} httputil.ErrorResponse "Not the owner"
// @Failure      404 {object} httputil.ErrorResponse "Set not found"
// @Router       /editset [post]
func (h *Handler) EditSet(w http.ResponseWriter, r *http.Request) {
	callerID, _ := auth.GetUserIDFromContext(r.Context())

	var req EditSetRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.Edit(r.Context(), callerID, uuid.MustParse(req.ID), req.Name, req.Cards); err != nil {
		respondServiceError(w, r, err)
		return
	}

	httputil.RespondOK(w)
}

// DeleteSet removes one of the caller's sets
// @Summary      Delete a card set
// @Tags         cardsets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body DeleteSetRequest true "Set id"
// @Success      200 {object} httputil.ErrorResponse "error is empty"
// @Failure      403 {object} httputil.ErrorResponse "Not the owner"
// @Failure      404 {object} httputil.ErrorResponse "Set not found"
// @Router       /deleteset [post]
func (h *Handler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	callerID, _ := auth.GetUserIDFromContext(r.Context())

	var req DeleteSetRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	setID := uuid.MustParse(req.ID)
	if err := h.service.Delete(r.Context(), callerID, setID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("card set deleted", "card_set_id", setID)
	httputil.RespondOK(w)
}

// InfoSet returns a full card set
// @Summary      Get a card set
// @Tags         cardsets
// @Accept       json
// @Produce      json
// @Param        request body InfoSetRequest true "Set id"
// @Success      200 {object} CardSet
// @Failure      404 {object} httputil.ErrorResponse "Set not found"
// @Router       /infoset [post]
func (h *Handler) InfoSet(w http.ResponseWriter, r *http.Request) {
	var req InfoSetRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	set, err := h.service.Get(r.Context(), uuid.MustParse(req.SetID))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	httputil.RespondJSON(w, set, http.StatusOK)
}

func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, "card set not found", httputil.CodeCardSetNotFound, http.StatusNotFound)
	case errors.Is(err, ErrNotOwner):
		httputil.RespondErrorWithCode(w, "invalid user access", httputil.CodeNotOwner, http.StatusForbidden)
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidCard):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
	case errors.Is(err, ErrCreatorMissing):
		httputil.RespondErrorWithCode(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
	default:
		logging.GetLoggerFromContext(r.Context()).Error("card set request failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
	}
}
