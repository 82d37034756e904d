package auth

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/athena-api/internal/httputil"
	"github.com/redmonkez12/athena-api/internal/logging"
	"github.com/redmonkez12/athena-api/internal/user"
)

// Handler contains HTTP handlers for the account endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username string `json:"Username" validate:"required,max=64"`
	Email    string `json:"Email" validate:"required,max=254"`
	Password string `json:"Password" validate:"required"`
}

// LoginRequest represents the login request body. Login is an email or a
// username.
type LoginRequest struct {
	Login    string `json:"Login" validate:"required"`
	Password string `json:"Password" validate:"required"`
}

// LoginResponse carries the session token
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// ConfirmationRequest represents the email confirmation request
type ConfirmationRequest struct {
	TokenID string `json:"TokenId" validate:"required"`
	Email   string `json:"Email" validate:"required"`
}

// EmailRequest is the body of /resend and /reset
type EmailRequest struct {
	Email string `json:"Email" validate:"required"`
}

// UpdatePasswordRequest represents the password reset confirmation
type UpdatePasswordRequest struct {
	TokenID  string `json:"TokenId" validate:"required"`
	Password string `json:"Password" validate:"required"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create an unverified account. A confirmation email is sent.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      200 {object} httputil.ErrorResponse "error is empty"
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      409 {object} httputil.ErrorResponse "Email or username taken"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	newUser, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			logger.Warn("registration failed: email already exists")
			respondError(w, "email already exists", httputil.CodeEmailAlreadyExists, http.StatusConflict)
		case errors.Is(err, user.ErrDuplicateUsername):
			logger.Warn("registration failed: username taken")
			respondError(w, "username already exists", httputil.CodeUsernameTaken, http.StatusConflict)
		case errors.Is(err, ErrInvalidEmailFormat):
			respondError(w, err.Error(), httputil.CodeInvalidEmailFormat, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidUsername):
			respondError(w, err.Error(), httputil.CodeInvalidUsername, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordTooShort):
			respondError(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
		case errors.Is(err, ErrFieldRequired):
			respondError(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		default:
			logger.Error("registration failed: internal error", "error", err.Error())
			respondError(w, "failed to register user", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user registered", "user_id", newUser.ID)
	httputil.RespondOK(w)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email or username and receive a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResponse
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      403 {object} httputil.ErrorResponse "Email not verified"
// @Router       /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			logger.Warn("login failed: invalid credentials")
			respondError(w, "invalid login or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
		case errors.Is(err, ErrEmailNotVerified):
			logger.Warn("login failed: email not verified")
			respondError(w, err.Error(), httputil.CodeEmailNotVerified, http.StatusForbidden)
		default:
			logger.Error("login failed: internal error", "error", err.Error())
			respondError(w, "failed to login", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user logged in")
	httputil.RespondJSON(w, LoginResponse{AccessToken: token}, http.StatusOK)
}

// Confirmation handles email confirmation
// @Summary      Confirm email address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ConfirmationRequest true "Token and email"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Already verified"
// @Failure      404 {object} httputil.ErrorResponse "Unknown token"
// @Router       /confirmation [post]
func (h *Handler) Confirmation(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ConfirmationRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.Confirm(r.Context(), req.TokenID, req.Email); err != nil {
		switch {
		case errors.Is(err, ErrInvalidFlowToken):
			logger.Warn("confirmation failed: invalid token")
			respondError(w, "this link is invalid or has expired", httputil.CodeInvalidFlowToken, http.StatusNotFound)
		case errors.Is(err, ErrAlreadyVerified):
			respondError(w, "this email is already verified, you can login now", httputil.CodeAlreadyVerified, http.StatusBadRequest)
		default:
			logger.Error("confirmation failed: internal error", "error", err.Error())
			respondError(w, "failed to verify email", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("email verified")
	httputil.RespondMessage(w, "Email verified successfully. You can now login.", http.StatusOK)
}

// Resend handles resending the confirmation email
// @Summary      Resend confirmation email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body EmailRequest true "Email address"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.ErrorResponse "Unknown email"
// @Failure      502 {object} httputil.ErrorResponse "Email delivery failed"
// @Router       /resend [post]
func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req EmailRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.Resend(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			respondError(w, "no account with this email", httputil.CodeUserNotFound, http.StatusNotFound)
		case errors.Is(err, ErrAlreadyVerified):
			respondError(w, "this email is already verified, you can login now", httputil.CodeAlreadyVerified, http.StatusBadRequest)
		case errors.Is(err, ErrNotificationFailed):
			logger.Error("resend failed: email delivery", "error", err.Error())
			respondError(w, "could not send the email, try again later", httputil.CodeEmailDeliveryFailed, http.StatusBadGateway)
		default:
			logger.Error("resend failed: internal error", "error", err.Error())
			respondError(w, "failed to resend email", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondMessage(w, "A new confirmation link has been sent.", http.StatusOK)
}

// Reset handles password reset requests
// @Summary      Request password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body EmailRequest true "Email address"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.ErrorResponse "Unknown email"
// @Failure      502 {object} httputil.ErrorResponse "Email delivery failed"
// @Router       /reset [post]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req EmailRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.RequestReset(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			respondError(w, "no account with this email", httputil.CodeUserNotFound, http.StatusNotFound)
		case errors.Is(err, ErrNotificationFailed):
			logger.Error("reset failed: email delivery", "error", err.Error())
			respondError(w, "could not send the email, try again later", httputil.CodeEmailDeliveryFailed, http.StatusBadGateway)
		default:
			logger.Error("reset failed: internal error", "error", err.Error())
			respondError(w, "failed to request password reset", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondMessage(w, "A password reset link has been sent.", http.StatusOK)
}

// UpdatePassword handles the password reset confirmation
// @Summary      Set a new password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body UpdatePasswordRequest true "Reset token and new password"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Password too short"
// @Failure      404 {object} httputil.ErrorResponse "Unknown or expired token"
// @Router       /updatepassword [post]
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req UpdatePasswordRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.UpdatePassword(r.Context(), req.TokenID, req.Password); err != nil {
		switch {
		case errors.Is(err, ErrInvalidFlowToken):
			logger.Warn("password update failed: invalid token")
			respondError(w, "this link is invalid or has expired", httputil.CodeInvalidFlowToken, http.StatusNotFound)
		case errors.Is(err, ErrPasswordTooShort):
			respondError(w, err.Error(), httputil.CodePasswordTooShort, http.StatusBadRequest)
		default:
			logger.Error("password update failed: internal error", "error", err.Error())
			respondError(w, "failed to update password", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("password updated")
	httputil.RespondMessage(w, "Password updated. You can now login with your new password.", http.StatusOK)
}

// respondError sends an error response with a machine-readable code
func respondError(w http.ResponseWriter, message string, code string, statusCode int) {
	httputil.RespondErrorWithCode(w, message, code, statusCode)
}
