package social

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/redmonkez12/athena-api/internal/auth"
	"github.com/redmonkez12/athena-api/internal/httputil"
	"github.com/redmonkez12/athena-api/internal/logging"
)

// Handler contains HTTP handlers for follow and like endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// FollowRequest is the body of /follow and /unfollow
type FollowRequest struct {
	UserID string `json:"UserId" validate:"required,uuid"`
}

// LikeRequest is the body of /like and /unlike
type LikeRequest struct {
	SetID string `json:"SetId" validate:"required,uuid"`
}

// Follow makes the caller follow a user
// @Summary      Follow a user
// @Tags         social
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body FollowRequest true "User to follow"
// @Success      200 {object} httputil.ErrorResponse "error is empty"
// @Failure      400 {object} httputil.ErrorResponse "Self follow"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /follow [post]
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	h.handleFollow(w, r, h.service.Follow)
}

// Unfollow makes the caller stop following a user
// @Summary      Unfollow a user
// @Tags         social
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body FollowRequest true "User to unfollow"
// @Success      200 {object} httputil.ErrorResponse "error is empty"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /unfollow [post]
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.handleFollow(w, r, h.service.Unfollow)
}

// Like records that the caller likes a card set
// @Summary      Like a card set
// @Tags         social
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body LikeRequest true "Card set to like"
// @Success      200 {object} httputil.ErrorResponse "error is empty"
// @Failure      404 {object} httputil.ErrorResponse "Card set not found"
// @Router       /like [post]
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.handleLike(w, r, h.service.Like)
}

// Unlike removes the caller's like
// @Summary      Unlike a card set
// @Tags         social
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body LikeRequest true "Card set to unlike"
// @Success      200 {object} httputil.ErrorResponse "error is empty"
// @Failure      404 {object} httputil.ErrorResponse "Card set not found"
// @Router       /unlike [post]
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.handleLike(w, r, h.service.Unlike)
}

type relationFunc func(ctx context.Context, subject, object uuid.UUID) error

func (h *Handler) handleFollow(w http.ResponseWriter, r *http.Request, apply relationFunc) {
	callerID, _ := auth.GetUserIDFromContext(r.Context())

	var req FollowRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := apply(r.Context(), callerID, uuid.MustParse(req.UserID)); err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondOK(w)
}

func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request, apply relationFunc) {
	callerID, _ := auth.GetUserIDFromContext(r.Context())

	var req LikeRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := apply(r.Context(), callerID, uuid.MustParse(req.SetID)); err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondOK(w)
}

func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSelfFollow):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeSelfFollow, http.StatusBadRequest)
	case errors.Is(err, ErrFollowerNotFound), errors.Is(err, ErrFolloweeNotFound), errors.Is(err, ErrUserNotFound):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeUserNotFound, http.StatusNotFound)
	case errors.Is(err, ErrCardSetNotFound):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeCardSetNotFound, http.StatusNotFound)
	default:
		logging.GetLoggerFromContext(r.Context()).Error("social request failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
	}
}
