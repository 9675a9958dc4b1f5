package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/castroh/pdi-agent/internal/api/middleware"
	"github.com/castroh/pdi-agent/internal/api/response"
	"github.com/castroh/pdi-agent/internal/domain"
	"github.com/castroh/pdi-agent/internal/service"
)

var validate = validator.New()

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService    *service.AuthService
	profileService *service.ProfileService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService) *AuthHandler {
	return &AuthHandler{authService: authService, profileService: profileService}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	if err := h.authService.Register(r.Context(), input); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.Created(w, map[string]any{"email": input.Email})
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	tokens, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, tokens)
}

// Refresh handles token refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		response.Unauthorized(w, "invalid or expired refresh token")
		return
	}

	response.OK(w, tokens)
}

// Forgot requests a password-reset token by e-mail. The answer is the same
// whether or not the e-mail is registered.
func (h *AuthHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var input domain.PasswordForgot
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), input.Email); err != nil {
		response.InternalError(w, "failed to process reset request")
		return
	}

	response.OK(w, map[string]string{
		"message": "Se o e-mail estiver cadastrado, um código de redefinição foi enviado.",
	})
}

// Reset redeems a reset token for a new password
func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var input domain.PasswordReset
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	err := h.authService.ResetPassword(r.Context(), input.Token, input.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) || errors.Is(err, service.ErrExpiredResetToken) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, map[string]string{"message": "Senha redefinida com sucesso."})
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	rec, err := h.profileService.GetRecord(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(w, "user not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, map[string]any{
		"email": rec.Email,
		"nome":  rec.Profile.Name,
	})
}

func validationMessages(err error) any {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	errs := make(map[string]string)
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			errs[e.Field()] = "field is required"
		case "email":
			errs[e.Field()] = "invalid email format"
		case "min":
			errs[e.Field()] = "must be at least " + e.Param() + " characters"
		case "max":
			errs[e.Field()] = "must be at most " + e.Param() + " characters"
		default:
			errs[e.Field()] = "validation failed on " + e.Tag()
		}
	}
	return errs
}
