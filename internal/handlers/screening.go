package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hirescreen/hirescreen-backend/internal/services"
)

type ScreeningHandler struct {
	screeningService services.ScreeningService
}

func NewScreeningHandler(screeningService services.ScreeningService) *ScreeningHandler {
	return &ScreeningHandler{screeningService: screeningService}
}

type runScreeningRequest struct {
	JobID       uuid.UUID `json:"job_id" binding:"required"`
	CandidateID uuid.UUID `json:"candidate_id" binding:"required"`
}

func (h *ScreeningHandler) Run(c *gin.Context) {
	var req runScreeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	result, err := h.screeningService.Run(c.Request.Context(), req.JobID, req.CandidateID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
