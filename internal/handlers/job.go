package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/services"
)

// maxUploadBytes bounds a single resume or JD upload.
const maxUploadBytes = 10 << 20

type JobHandler struct {
	jobService        services.JobService
	processingService services.ProcessingService
}

func NewJobHandler(jobService services.JobService, processingService services.ProcessingService) *JobHandler {
	return &JobHandler{
		jobService:        jobService,
		processingService: processingService,
	}
}

func (h *JobHandler) Create(c *gin.Context) {
	var input services.CreateJobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	job, err := h.jobService.Create(c.Request.Context(), input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"job_id": job.ID, "job": job})
}

func (h *JobHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	job, err := h.jobService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"job": job})
}

// UploadJD takes the JD as a multipart "file" part or a "text" form field.
func (h *JobHandler) UploadJD(c *gin.Context) {
	jobID, err := parseUUIDParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	title := strings.TrimSpace(c.PostForm("title"))
	text, err := textFromForm(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}

	result, err := h.jobService.UploadJD(c.Request.Context(), jobID, title, text)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"document_id": result.DocumentID,
		"version":     result.Version,
		"chunks":      result.ChunkCount,
		"embedded":    result.EmbeddedCount,
	})
}

// UploadResume queues resume ingestion and screening against this job for a
// matched-or-created candidate.
func (h *JobHandler) UploadResume(c *gin.Context) {
	jobID, err := parseUUIDParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	text, err := textFromForm(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}

	run, err := h.processingService.ProcessResume(c.Request.Context(), services.ProcessResumeInput{
		JobID: jobID,
		Title: strings.TrimSpace(c.PostForm("title")),
		Text:  text,
		Candidate: services.CreateCandidateInput{
			FullName:    c.PostForm("full_name"),
			Email:       c.PostForm("email"),
			Phone:       c.PostForm("phone"),
			Location:    c.PostForm("location"),
			LinkedinURL: c.PostForm("linkedin_url"),
		},
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"processing_id": run.ID, "candidate_id": run.CandidateID})
}

// textFromForm prefers an uploaded file, decoded as UTF-8 text, over the
// "text" form field.
func textFromForm(c *gin.Context) (string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.PostForm("text"), nil
	}
	if fileHeader.Size > maxUploadBytes {
		return "", fmt.Errorf("file exceeds upload limit: %w", apierr.ErrInvalidInput)
	}
	f, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
