package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/castroh/pdi-agent/internal/api/middleware"
	"github.com/castroh/pdi-agent/internal/api/response"
	"github.com/castroh/pdi-agent/internal/domain"
	"github.com/castroh/pdi-agent/internal/service"
)

// ProfileHandler handles profile and career-plan endpoints
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile returns the profile section
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.record(w, r)
	if !ok {
		return
	}
	response.OK(w, rec.Profile)
}

// UpdateProfile overwrites the profile section
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var profile domain.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.profileService.UpdateProfile(r.Context(), email, profile); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	response.OK(w, map[string]string{"message": "Perfil salvo com sucesso."})
}

// GetPlan returns the career-plan section
func (h *ProfileHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.record(w, r)
	if !ok {
		return
	}
	response.OK(w, rec.PDIPlan)
}

// UpdatePlan overwrites the career-plan section
func (h *ProfileHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var plan domain.CareerPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.profileService.UpdatePlan(r.Context(), email, plan); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	response.OK(w, map[string]string{"message": "Plano salvo com sucesso."})
}

func (h *ProfileHandler) record(w http.ResponseWriter, r *http.Request) (*domain.UserRecord, bool) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return nil, false
	}

	rec, err := h.profileService.GetRecord(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(w, "user not found")
			return nil, false
		}
		response.InternalError(w, err.Error())
		return nil, false
	}
	return rec, true
}
