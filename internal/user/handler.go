package user

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/redmonkez12/athena-api/internal/httputil"
	"github.com/redmonkez12/athena-api/internal/logging"
)

// Handler serves public user profiles.
type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// InfoUserRequest is the body of /infouser
type InfoUserRequest struct {
	UserID string `json:"UserId" validate:"required,uuid"`
}

// InfoUserResponse is a public profile with the legacy error field.
type InfoUserResponse struct {
	Profile
	Error string `json:"error"`
}

// InfoUser returns a user's public profile
// @Summary      Get a user profile
// @Description  Public profile with created and liked card sets, followers and following
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body InfoUserRequest true "User id"
// @Success      200 {object} InfoUserResponse
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /infouser [post]
func (h *Handler) InfoUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req InfoUserRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.repo.GetProfile(r.Context(), uuid.MustParse(req.UserID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to load profile", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to load user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, InfoUserResponse{Profile: *profile}, http.StatusOK)
}
