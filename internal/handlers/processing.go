package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirescreen/hirescreen-backend/internal/services"
)

type ProcessingHandler struct {
	processingService services.ProcessingService
}

func NewProcessingHandler(processingService services.ProcessingService) *ProcessingHandler {
	return &ProcessingHandler{processingService: processingService}
}

func (h *ProcessingHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	run, err := h.processingService.GetRun(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"run": run})
}
