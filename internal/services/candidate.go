package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/hirescreen/hirescreen-backend/internal/ingestion"
	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/repos"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

type CreateCandidateInput struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	LinkedinURL string `json:"linkedin_url"`
}

type CandidateService interface {
	Create(ctx context.Context, input CreateCandidateInput) (*types.Candidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Candidate, error)
	// FindOrCreate matches an existing candidate by email, then phone.
	// A match absorbs any newly supplied profile fields; otherwise a fresh
	// candidate is created.
	FindOrCreate(ctx context.Context, input CreateCandidateInput) (*types.Candidate, error)
	// EnrichFromResume backfills contact fields scraped from resume text.
	EnrichFromResume(ctx context.Context, candidateID uuid.UUID, resumeText string) error
	// UploadResume ingests a resume for an existing candidate without
	// queuing a screening.
	UploadResume(ctx context.Context, candidateID uuid.UUID, title, text string) (*ingestion.IngestResult, error)
}

type candidateService struct {
	repo     repos.CandidateRepo
	ingestor ingestion.Ingestor
	log      *logger.Logger
}

func NewCandidateService(repo repos.CandidateRepo, ingestor ingestion.Ingestor, baseLog *logger.Logger) CandidateService {
	return &candidateService{
		repo:     repo,
		ingestor: ingestor,
		log:      baseLog.With("service", "CandidateService"),
	}
}

func (s *candidateService) UploadResume(ctx context.Context, candidateID uuid.UUID, title, text string) (*ingestion.IngestResult, error) {
	if _, err := s.repo.GetByID(ctx, nil, candidateID); err != nil {
		return nil, err
	}
	return s.ingestor.IngestResume(ctx, candidateID, title, text)
}

func (s *candidateService) Create(ctx context.Context, input CreateCandidateInput) (*types.Candidate, error) {
	if strings.TrimSpace(input.FullName) == "" {
		return nil, fmt.Errorf("full_name is required: %w", apierr.ErrInvalidInput)
	}
	return s.repo.Create(ctx, nil, &types.Candidate{
		FullName:    strings.TrimSpace(input.FullName),
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		Location:    strings.TrimSpace(input.Location),
		LinkedinURL: strings.TrimSpace(input.LinkedinURL),
	})
}

func (s *candidateService) GetByID(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
	return s.repo.GetByID(ctx, nil, id)
}

func (s *candidateService) FindOrCreate(ctx context.Context, input CreateCandidateInput) (*types.Candidate, error) {
	var found *types.Candidate
	if email := strings.TrimSpace(input.Email); email != "" {
		candidate, err := s.repo.GetByEmail(ctx, nil, email)
		if err != nil && !errors.Is(err, apierr.ErrNotFound) {
			return nil, err
		}
		found = candidate
	}
	if found == nil {
		if phone := strings.TrimSpace(input.Phone); phone != "" {
			candidate, err := s.repo.GetByPhone(ctx, nil, phone)
			if err != nil && !errors.Is(err, apierr.ErrNotFound) {
				return nil, err
			}
			found = candidate
		}
	}
	if found == nil {
		name := strings.TrimSpace(input.FullName)
		if name == "" {
			name = "Unknown"
		}
		return s.repo.Create(ctx, nil, &types.Candidate{
			FullName:    name,
			Email:       strings.TrimSpace(input.Email),
			Phone:       strings.TrimSpace(input.Phone),
			Location:    strings.TrimSpace(input.Location),
			LinkedinURL: strings.TrimSpace(input.LinkedinURL),
		})
	}

	fields := map[string]interface{}{}
	if v := strings.TrimSpace(input.FullName); v != "" {
		fields["full_name"] = v
	}
	if v := strings.TrimSpace(input.Location); v != "" {
		fields["location"] = v
	}
	if v := strings.TrimSpace(input.LinkedinURL); v != "" {
		fields["linkedin_url"] = v
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, nil, found.ID, fields); err != nil {
			return nil, err
		}
		return s.repo.GetByID(ctx, nil, found.ID)
	}
	return found, nil
}

// Contact details scraped out of raw resume text. The name pattern targets
// the markdown-style bold header most text extractors emit for the top line.
var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`\+?[0-9][0-9()\s-]{7,14}[0-9]`)
	nameRe  = regexp.MustCompile(`(?m)^#\s*\*\*([^*]+)\*\*`)
)

func (s *candidateService) EnrichFromResume(ctx context.Context, candidateID uuid.UUID, resumeText string) error {
	fields := map[string]interface{}{}
	if m := nameRe.FindStringSubmatch(resumeText); m != nil {
		fields["full_name"] = strings.TrimSpace(m[1])
	}
	if m := emailRe.FindString(resumeText); m != "" {
		fields["email"] = m
	}
	if m := phoneRe.FindString(resumeText); m != "" {
		fields["phone"] = strings.TrimSpace(m)
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.repo.UpdateFields(ctx, nil, candidateID, fields); err != nil {
		return err
	}
	s.log.Debug("candidate enriched from resume", "candidate_id", candidateID, "fields", len(fields))
	return nil
}
