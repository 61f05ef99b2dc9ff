package retrieval

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
)

func TestChunkFilters(t *testing.T) {
	jobID := uuid.New()
	candidateID := uuid.New()

	where, args := chunkFilters(&jobID, &candidateID, " skills ")
	if got := strings.Count(where, "AND "); got != 3 {
		t.Fatalf("clause count: want=3 got=%d in %q", got, where)
	}
	if !strings.Contains(where, "chunk.job_id = ?") ||
		!strings.Contains(where, "chunk.candidate_id = ?") ||
		!strings.Contains(where, "chunk.section = ?") {
		t.Fatalf("missing filter clause in %q", where)
	}
	if len(args) != 3 {
		t.Fatalf("arg count: want=3 got=%d", len(args))
	}
	if args[0] != jobID || args[1] != candidateID || args[2] != "skills" {
		t.Fatalf("args out of order or untrimmed: %v", args)
	}

	where, args = chunkFilters(nil, nil, "")
	if where != "" || len(args) != 0 {
		t.Fatalf("empty filters should render nothing, got %q / %v", where, args)
	}

	// A nil-uuid pointer is treated the same as absent.
	nilID := uuid.Nil
	where, args = chunkFilters(&nilID, nil, "")
	if where != "" || len(args) != 0 {
		t.Fatalf("nil uuid should render nothing, got %q / %v", where, args)
	}
}

func TestSearchInputValidation(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	r := NewRetriever(nil, "test-model", log)

	if _, err := r.VectorSearch(context.Background(), VectorQuery{}); err == nil {
		t.Fatalf("vector search without a vector should fail")
	}
	if _, err := r.HybridSearch(context.Background(), HybridQuery{Vector: []float32{1}}); err == nil {
		t.Fatalf("hybrid search without text should fail")
	}
	if _, err := r.HybridSearch(context.Background(), HybridQuery{Text: "go"}); err == nil {
		t.Fatalf("hybrid search without a vector should fail")
	}
}
