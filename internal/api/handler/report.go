package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/castroh/pdi-agent/internal/api/middleware"
	"github.com/castroh/pdi-agent/internal/api/response"
	"github.com/castroh/pdi-agent/internal/pdf"
	"github.com/castroh/pdi-agent/internal/service"
)

// ReportHandler serves the diagnostic as a downloadable PDF
type ReportHandler struct {
	profileService *service.ProfileService
	renderer       *pdf.Renderer
}

// NewReportHandler creates a new report handler
func NewReportHandler(profileService *service.ProfileService, renderer *pdf.Renderer) *ReportHandler {
	return &ReportHandler{profileService: profileService, renderer: renderer}
}

// Download renders the stored diagnostic as a PDF attachment
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
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
		response.NotFound(w, "nenhuma análise disponível para exportar")
		return
	}

	data, err := h.renderer.Render(rec)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(rec.Profile.Name)))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}

func reportFilename(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "_")
	if slug == "" {
		slug = "diagnostico"
	}
	return "pdi_" + slug + ".pdf"
}
