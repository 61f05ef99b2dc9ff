package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hirescreen/hirescreen-backend/internal/ingestion"
	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/retrieval"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

const semanticEvidenceLimit = 5

// Narrow views over the stores and services the engine reads from, so tests
// can screen against fixtures without a database.
type (
	JobReader interface {
		GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Job, error)
	}
	CandidateReader interface {
		GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Candidate, error)
	}
	ChunkLister interface {
		ListByJobID(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*types.Chunk, error)
		ListByCandidateID(ctx context.Context, tx *gorm.DB, candidateID uuid.UUID) ([]*types.Chunk, error)
	}
	ScreeningWriter interface {
		Upsert(ctx context.Context, tx *gorm.DB, screening *types.Screening) (*types.Screening, error)
	}
	Embedder interface {
		Embed(ctx context.Context, inputs []string) ([][]float32, error)
	}
	ChunkSearcher interface {
		VectorSearch(ctx context.Context, q retrieval.VectorQuery) ([]retrieval.Match, error)
	}
)

// SemanticHit is one resume chunk retrieved as evidence for the semantic
// criterion.
type SemanticHit struct {
	ChunkID    uuid.UUID `json:"chunk_id"`
	Section    string    `json:"section"`
	Content    string    `json:"content"`
	Similarity float64   `json:"similarity"`
}

// Evidence is the structured explanation persisted alongside the fit score.
type Evidence struct {
	MatchingSkills     []string      `json:"matching_skills"`
	MissingSkills      []string      `json:"missing_skills"`
	CandidateSeniority string        `json:"candidate_seniority"`
	JobSeniority       string        `json:"job_seniority"`
	ExperienceYears    float64       `json:"experience_years"`
	DomainMatch        []string      `json:"domain_match"`
	LocationMatch      bool          `json:"location_match"`
	ResumeEvidence     []SemanticHit `json:"resume_evidence"`
}

// Criteria is the per-signal breakdown returned to the caller.
type Criteria struct {
	SkillsMatch     string  `json:"skills_match"`
	Seniority       string  `json:"seniority"`
	ExperienceYears float64 `json:"experience_years"`
	DomainRelevance float64 `json:"domain_relevance"`
	LocationMatch   bool    `json:"location_match"`
}

// Result is the full screening payload, mirroring the persisted record plus
// the derived recommendation and breakdown.
type Result struct {
	ScreeningID    uuid.UUID `json:"screening_id"`
	FitScore       float64   `json:"fit_score"`
	Recommendation string    `json:"recommendation"`
	Criteria       Criteria  `json:"criteria"`
	Summary        string    `json:"summary"`
	Evidence       Evidence  `json:"evidence"`
}

type Engine interface {
	// Screen scores one candidate against one job and upserts the result.
	// Missing job, candidate or document content degrades to neutral
	// defaults; store and embedding failures propagate.
	Screen(ctx context.Context, jobID, candidateID uuid.UUID) (*Result, error)
}

type engine struct {
	jobs       JobReader
	candidates CandidateReader
	chunks     ChunkLister
	screenings ScreeningWriter
	embedder   Embedder
	searcher   ChunkSearcher
	rules      *Ruleset
	log        *logger.Logger
}

func NewEngine(
	jobs JobReader,
	candidates CandidateReader,
	chunks ChunkLister,
	screenings ScreeningWriter,
	embedder Embedder,
	searcher ChunkSearcher,
	rules *Ruleset,
	baseLog *logger.Logger,
) Engine {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &engine{
		jobs:       jobs,
		candidates: candidates,
		chunks:     chunks,
		screenings: screenings,
		embedder:   embedder,
		searcher:   searcher,
		rules:      rules,
		log:        baseLog.With("component", "ScreeningEngine"),
	}
}

func (e *engine) Screen(ctx context.Context, jobID, candidateID uuid.UUID) (*Result, error) {
	job, err := e.jobs.GetByID(ctx, nil, jobID)
	if errors.Is(err, apierr.ErrNotFound) {
		job = &types.Job{}
	} else if err != nil {
		return nil, err
	}
	candidate, err := e.candidates.GetByID(ctx, nil, candidateID)
	if errors.Is(err, apierr.ErrNotFound) {
		candidate = &types.Candidate{}
	} else if err != nil {
		return nil, err
	}

	jdText, err := e.jdText(ctx, jobID)
	if err != nil {
		return nil, err
	}
	resumeText, err := e.resumeText(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	jdSkills := ExtractSkills(jdText, e.rules)
	resumeSkills := ExtractSkills(resumeText, e.rules)
	matching, missing := matchSkills(jdSkills, resumeSkills)
	skillsScore := 0.0
	if len(jdSkills) > 0 {
		skillsScore = float64(len(matching)) / float64(len(jdSkills))
	}

	years := YearsOfExperience(resumeText)
	tier := SeniorityTier(resumeText, e.rules)
	seniorityScore := seniorityCompat(job.Seniority, tier)

	jdDomain, domainMatch := domainOverlap(jdText, resumeText, e.rules)
	domainScore := 0.5
	if len(jdDomain) > 0 {
		domainScore = float64(len(domainMatch)) / float64(len(jdDomain))
	}

	locationScore := scoreLocation(job.Location, candidate.Location)

	experienceScore, hits, err := e.semanticScore(ctx, candidateID, jdText, resumeText)
	if err != nil {
		return nil, err
	}

	w := e.rules.Weights
	overall := skillsScore*w.Skills +
		seniorityScore*w.Seniority +
		domainScore*w.Domain +
		locationScore*w.Location +
		experienceScore*w.Experience

	recommendation := e.recommend(overall)
	jobSeniority := job.Seniority
	if jobSeniority == "" {
		jobSeniority = "any"
	}
	summary := fmt.Sprintf(
		"%s (%.2f) - Skills: %d/%d matched, Seniority: %s vs %s, Experience: %.1f years, Location: %s",
		recommendation, overall,
		len(matching), len(jdSkills),
		tier, jobSeniority,
		years,
		locationLabel(locationScore),
	)

	evidence := Evidence{
		MatchingSkills:     matching,
		MissingSkills:      missing,
		CandidateSeniority: tier,
		JobSeniority:       job.Seniority,
		ExperienceYears:    years,
		DomainMatch:        domainMatch,
		LocationMatch:      locationScore > 0.7,
		ResumeEvidence:     hits,
	}
	evidenceJSON, err := json.Marshal(evidence)
	if err != nil {
		return nil, fmt.Errorf("marshal evidence: %w", err)
	}

	saved, err := e.screenings.Upsert(ctx, nil, &types.Screening{
		CandidateID: candidateID,
		JobID:       jobID,
		FitScore:    overall,
		Summary:     summary,
		Evidence:    datatypes.JSON(evidenceJSON),
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("screening complete",
		"screening_id", saved.ID,
		"job_id", jobID,
		"candidate_id", candidateID,
		"fit_score", round4(overall),
		"recommendation", recommendation,
	)
	return &Result{
		ScreeningID:    saved.ID,
		FitScore:       round4(overall),
		Recommendation: recommendation,
		Criteria: Criteria{
			SkillsMatch:     fmt.Sprintf("%d/%d", len(matching), len(jdSkills)),
			Seniority:       fmt.Sprintf("%s vs %s", tier, jobSeniority),
			ExperienceYears: years,
			DomainRelevance: domainScore,
			LocationMatch:   locationScore > 0.7,
		},
		Summary:  summary,
		Evidence: evidence,
	}, nil
}

// jdText joins the job's requirement-bearing chunk sections in position
// order. Sections outside the targeted set are ignored.
func (e *engine) jdText(ctx context.Context, jobID uuid.UUID) (string, error) {
	chunks, err := e.chunks.ListByJobID(ctx, nil, jobID)
	if err != nil {
		return "", err
	}
	targets := map[string]bool{
		"requirements":         true,
		"responsibilities":     true,
		ingestion.SectionOther: true,
	}
	var parts []string
	for _, ch := range chunks {
		if targets[ch.Section] {
			parts = append(parts, ch.Content)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func (e *engine) resumeText(ctx context.Context, candidateID uuid.UUID) (string, error) {
	chunks, err := e.chunks.ListByCandidateID(ctx, nil, candidateID)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		parts = append(parts, ch.Content)
	}
	return strings.Join(parts, "\n"), nil
}

// semanticScore embeds the JD text and averages the similarity of the
// candidate's ten closest resume chunks. Either text missing scores zero.
func (e *engine) semanticScore(ctx context.Context, candidateID uuid.UUID, jdText, resumeText string) (float64, []SemanticHit, error) {
	if strings.TrimSpace(jdText) == "" || strings.TrimSpace(resumeText) == "" {
		return 0, nil, nil
	}
	vectors, err := e.embedder.Embed(ctx, []string{jdText})
	if err != nil {
		return 0, nil, fmt.Errorf("embed jd text: %w", err)
	}
	if len(vectors) != 1 {
		return 0, nil, fmt.Errorf("embed jd text: got %d vectors", len(vectors))
	}
	matches, err := e.searcher.VectorSearch(ctx, retrieval.VectorQuery{
		Vector:      vectors[0],
		CandidateID: &candidateID,
		Limit:       10,
		// Averaging wants the full top-10, not just the confident part.
		MinSimilarity: -1,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("resume chunk search: %w", err)
	}
	if len(matches) == 0 {
		return 0, nil, nil
	}

	sum := 0.0
	for _, m := range matches {
		sum += m.Similarity
	}
	score := round4(sum / float64(len(matches)))

	n := len(matches)
	if n > semanticEvidenceLimit {
		n = semanticEvidenceLimit
	}
	hits := make([]SemanticHit, 0, n)
	for _, m := range matches[:n] {
		hits = append(hits, SemanticHit{
			ChunkID:    m.Chunk.ID,
			Section:    m.Chunk.Section,
			Content:    m.Chunk.Content,
			Similarity: m.Similarity,
		})
	}
	return score, hits, nil
}

func (e *engine) recommend(score float64) string {
	t := e.rules.Tiers
	switch {
	case score >= t.StrongHire:
		return "Strong Hire"
	case score >= t.Hire:
		return "Hire"
	case score >= t.Maybe:
		return "Maybe"
	default:
		return "Pass"
	}
}

// scoreLocation compares locations case-insensitively: containment either
// way is a match, a remote mention on either side is close enough, anything
// else is a long shot. A missing location on either side scores full.
func scoreLocation(jobLocation, candidateLocation string) float64 {
	if strings.TrimSpace(jobLocation) == "" || strings.TrimSpace(candidateLocation) == "" {
		return 1.0
	}
	jl := strings.ToLower(jobLocation)
	cl := strings.ToLower(candidateLocation)
	switch {
	case strings.Contains(jl, cl) || strings.Contains(cl, jl):
		return 1.0
	case strings.Contains(jl, "remote") || strings.Contains(cl, "remote"):
		return 0.8
	default:
		return 0.3
	}
}

func locationLabel(score float64) string {
	if score > 0.7 {
		return "Match"
	}
	return "Mismatch"
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
