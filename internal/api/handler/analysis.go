package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/castroh/pdi-agent/internal/api/middleware"
	"github.com/castroh/pdi-agent/internal/api/response"
	"github.com/castroh/pdi-agent/internal/pdf"
	"github.com/castroh/pdi-agent/internal/service"
)

// AnalysisHandler handles the diagnostic pipeline endpoints
type AnalysisHandler struct {
	analysisService *service.AnalysisService
	profileService  *service.ProfileService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService, profileService *service.ProfileService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, profileService: profileService}
}

// Start launches a diagnostic run after checking the usage quota
func (h *AnalysisHandler) Start(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	quota, err := h.analysisService.Quota(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}
	if quota.Exhausted {
		response.TooManyRequests(w, map[string]any{
			"message":   fmt.Sprintf("Limite de análises atingido. Tente novamente em %d dia(s).", quota.WaitDays),
			"wait_days": quota.WaitDays,
		})
		return
	}

	run, err := h.analysisService.Start(email)
	if err != nil {
		if errors.Is(err, service.ErrAnalysisInFlight) {
			response.Conflict(w, "uma análise já está em andamento")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.Accepted(w, map[string]any{"run_id": run.ID})
}

// Status drains the pending progress messages of the current run
func (h *AnalysisHandler) Status(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	msgs, active, err := h.analysisService.Poll(r.Context(), email)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	if msgs == nil {
		msgs = []service.StatusMessage{}
	}
	response.OK(w, map[string]any{
		"active":   active,
		"messages": msgs,
	})
}

// Get returns the last stored diagnostic, both raw and as display text
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	rec, err := h.profileService.GetRecord(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	if len(rec.AIAnalysis) == 0 {
		response.NotFound(w, "nenhuma análise disponível")
		return
	}

	response.OK(w, map[string]any{
		"ai_analysis": rec.AIAnalysis,
		"texto":       pdf.PlainText(pdf.Sections(rec.AIAnalysis, rec.Profile)),
	})
}
