package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/embeddings"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/retrieval"
)

const (
	SearchModeVector = "vector"
	SearchModeHybrid = "hybrid"
)

type SearchInput struct {
	Query       string     `json:"query"`
	Mode        string     `json:"mode"`
	JobID       *uuid.UUID `json:"job_id,omitempty"`
	CandidateID *uuid.UUID `json:"candidate_id,omitempty"`
	Section     string     `json:"section,omitempty"`
	Limit       int        `json:"limit,omitempty"`
}

// SearchService embeds free-text queries and runs them through the
// retriever.
type SearchService interface {
	Search(ctx context.Context, input SearchInput) ([]retrieval.Match, error)
}

type searchService struct {
	embedder  embeddings.Client
	retriever retrieval.Retriever
	log       *logger.Logger
}

func NewSearchService(embedder embeddings.Client, retriever retrieval.Retriever, baseLog *logger.Logger) SearchService {
	return &searchService{
		embedder:  embedder,
		retriever: retriever,
		log:       baseLog.With("service", "SearchService"),
	}
}

func (s *searchService) Search(ctx context.Context, input SearchInput) ([]retrieval.Match, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", apierr.ErrInvalidInput)
	}
	mode := input.Mode
	if mode == "" {
		mode = SearchModeVector
	}
	if mode != SearchModeVector && mode != SearchModeHybrid {
		return nil, fmt.Errorf("unknown search mode %q: %w", mode, apierr.ErrInvalidInput)
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vectors))
	}

	if mode == SearchModeHybrid {
		return s.retriever.HybridSearch(ctx, retrieval.HybridQuery{
			Vector:      vectors[0],
			Text:        query,
			JobID:       input.JobID,
			CandidateID: input.CandidateID,
			Section:     input.Section,
			Limit:       input.Limit,
		})
	}
	return s.retriever.VectorSearch(ctx, retrieval.VectorQuery{
		Vector:      vectors[0],
		JobID:       input.JobID,
		CandidateID: input.CandidateID,
		Section:     input.Section,
		Limit:       input.Limit,
		// Browsing queries want the full top-K, not just the confident part.
		MinSimilarity: -1,
	})
}
