package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

const (
	DefaultLimit = 5

	// DefaultMinSimilarity is advisory: it trims the returned set after
	// ranking, it does not change the ranking query itself.
	DefaultMinSimilarity = 0.6

	DefaultVectorWeight  = 0.7
	DefaultLexicalWeight = 0.3
)

// VectorQuery ranks chunks by cosine similarity to Vector. A zero
// MinSimilarity means the default; pass a negative value to disable the
// post-filter.
type VectorQuery struct {
	Vector        []float32
	JobID         *uuid.UUID
	CandidateID   *uuid.UUID
	Section       string
	Limit         int
	MinSimilarity float64
}

// HybridQuery ranks chunks by a weighted blend of vector similarity and
// full-text rank against Text. Only chunks whose content matches the text
// query qualify. Zero weights mean the defaults.
type HybridQuery struct {
	Vector        []float32
	Text          string
	JobID         *uuid.UUID
	CandidateID   *uuid.UUID
	Section       string
	Limit         int
	VectorWeight  float64
	LexicalWeight float64
}

// Match is one ranked chunk. Similarity is 1 - cosine distance. LexicalRank
// and Score are only set by hybrid search; vector search reports Score equal
// to Similarity.
type Match struct {
	Chunk         *types.Chunk `json:"chunk"`
	DocumentTitle string       `json:"document_title"`
	Similarity    float64      `json:"similarity"`
	LexicalRank   float64      `json:"lexical_rank,omitempty"`
	Score         float64      `json:"score"`
}

type Retriever interface {
	VectorSearch(ctx context.Context, q VectorQuery) ([]Match, error)
	HybridSearch(ctx context.Context, q HybridQuery) ([]Match, error)
}

type retriever struct {
	db    *gorm.DB
	model string
	log   *logger.Logger
}

// NewRetriever reads from the store only; model selects which embedding rows
// participate in ranking.
func NewRetriever(db *gorm.DB, model string, baseLog *logger.Logger) Retriever {
	return &retriever{
		db:    db,
		model: model,
		log:   baseLog.With("component", "Retriever"),
	}
}

type matchRow struct {
	types.Chunk
	DocumentTitle string  `gorm:"column:document_title"`
	Similarity    float64 `gorm:"column:similarity"`
	LexicalRank   float64 `gorm:"column:lexical_rank"`
}

func (r *retriever) VectorSearch(ctx context.Context, q VectorQuery) ([]Match, error) {
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector search requires a query vector")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	minSim := q.MinSimilarity
	if minSim == 0 {
		minSim = DefaultMinSimilarity
	}

	vec := pgvector.NewVector(q.Vector)
	where, args := chunkFilters(q.JobID, q.CandidateID, q.Section)

	sql := fmt.Sprintf(`
		SELECT chunk.*, document.title AS document_title,
		       1 - (embedding.vector <=> ?) AS similarity
		FROM chunk
		JOIN embedding ON embedding.chunk_id = chunk.id AND embedding.model = ?
		JOIN document ON document.id = chunk.document_id
		WHERE document.is_active = true%s
		ORDER BY embedding.vector <=> ?
		LIMIT %d;
	`, where, limit)

	bind := append([]interface{}{vec, r.model}, args...)
	bind = append(bind, vec)

	var rows []matchRow
	if err := r.db.WithContext(ctx).Raw(sql, bind...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	matches := make([]Match, 0, len(rows))
	for i := range rows {
		row := rows[i]
		if row.Similarity < minSim {
			continue
		}
		matches = append(matches, Match{
			Chunk:         &row.Chunk,
			DocumentTitle: row.DocumentTitle,
			Similarity:    row.Similarity,
			Score:         row.Similarity,
		})
	}
	return matches, nil
}

func (r *retriever) HybridSearch(ctx context.Context, q HybridQuery) ([]Match, error) {
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("hybrid search requires a query vector")
	}
	if strings.TrimSpace(q.Text) == "" {
		return nil, fmt.Errorf("hybrid search requires query text")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	wVec, wLex := q.VectorWeight, q.LexicalWeight
	if wVec == 0 && wLex == 0 {
		wVec, wLex = DefaultVectorWeight, DefaultLexicalWeight
	}

	vec := pgvector.NewVector(q.Vector)
	where, args := chunkFilters(q.JobID, q.CandidateID, q.Section)

	sql := fmt.Sprintf(`
		SELECT chunk.*, document.title AS document_title,
		       1 - (embedding.vector <=> ?) AS similarity,
		       ts_rank(to_tsvector('english', chunk.content), plainto_tsquery('english', ?)) AS lexical_rank
		FROM chunk
		JOIN embedding ON embedding.chunk_id = chunk.id AND embedding.model = ?
		JOIN document ON document.id = chunk.document_id
		WHERE document.is_active = true
			AND to_tsvector('english', chunk.content) @@ plainto_tsquery('english', ?)%s
		ORDER BY ? * (1 - (embedding.vector <=> ?)) + ? * ts_rank(to_tsvector('english', chunk.content), plainto_tsquery('english', ?)) DESC
		LIMIT %d;
	`, where, limit)

	bind := append([]interface{}{vec, q.Text, r.model, q.Text}, args...)
	bind = append(bind, wVec, vec, wLex, q.Text)

	var rows []matchRow
	if err := r.db.WithContext(ctx).Raw(sql, bind...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	matches := make([]Match, 0, len(rows))
	for i := range rows {
		row := rows[i]
		matches = append(matches, Match{
			Chunk:         &row.Chunk,
			DocumentTitle: row.DocumentTitle,
			Similarity:    row.Similarity,
			LexicalRank:   row.LexicalRank,
			Score:         wVec*row.Similarity + wLex*row.LexicalRank,
		})
	}
	return matches, nil
}

// chunkFilters renders the optional equality filters as AND clauses with
// bound parameters, keeping predicate text and values together.
func chunkFilters(jobID, candidateID *uuid.UUID, section string) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}
	if jobID != nil && *jobID != uuid.Nil {
		sb.WriteString("\n\t\t\tAND chunk.job_id = ?")
		args = append(args, *jobID)
	}
	if candidateID != nil && *candidateID != uuid.Nil {
		sb.WriteString("\n\t\t\tAND chunk.candidate_id = ?")
		args = append(args, *candidateID)
	}
	if section = strings.TrimSpace(section); section != "" {
		sb.WriteString("\n\t\t\tAND chunk.section = ?")
		args = append(args, section)
	}
	return sb.String(), args
}
