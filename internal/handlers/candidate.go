package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hirescreen/hirescreen-backend/internal/services"
)

type CandidateHandler struct {
	candidateService services.CandidateService
	screeningService services.ScreeningService
}

func NewCandidateHandler(candidateService services.CandidateService, screeningService services.ScreeningService) *CandidateHandler {
	return &CandidateHandler{
		candidateService: candidateService,
		screeningService: screeningService,
	}
}

func (h *CandidateHandler) Create(c *gin.Context) {
	var input services.CreateCandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	candidate, err := h.candidateService.Create(c.Request.Context(), input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"candidate_id": candidate.ID, "candidate": candidate})
}

func (h *CandidateHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	candidate, err := h.candidateService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"candidate": candidate})
}

// UploadResume ingests a resume for an already-registered candidate.
func (h *CandidateHandler) UploadResume(c *gin.Context) {
	candidateID, err := parseUUIDParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	text, err := textFromForm(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	result, err := h.candidateService.UploadResume(c.Request.Context(), candidateID, strings.TrimSpace(c.PostForm("title")), text)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"document_id": result.DocumentID,
		"chunks":      result.ChunkCount,
		"embedded":    result.EmbeddedCount,
	})
}

func (h *CandidateHandler) GetScreening(c *gin.Context) {
	candidateID, err := parseUUIDParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	jobID, err := parseUUIDParam(c, "jobID")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	screening, err := h.screeningService.GetByPair(c.Request.Context(), candidateID, jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"screening": screening})
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}
