package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

type fakeDocumentRepo struct {
	created     []*types.Document
	nextVersion int
}

func (f *fakeDocumentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.Document) (*types.Document, error) {
	doc.ID = uuid.New()
	f.created = append(f.created, doc)
	return doc, nil
}

func (f *fakeDocumentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error) {
	return nil, apierr.ErrNotFound
}

func (f *fakeDocumentRepo) NextVersionForJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (int, error) {
	if f.nextVersion == 0 {
		f.nextVersion = 1
	}
	return f.nextVersion, nil
}

type fakeChunkRepo struct {
	created []*types.Chunk
}

func (f *fakeChunkRepo) CreateBatch(ctx context.Context, tx *gorm.DB, chunks []*types.Chunk) ([]*types.Chunk, error) {
	for _, ch := range chunks {
		ch.ID = uuid.New()
	}
	f.created = append(f.created, chunks...)
	return chunks, nil
}

func (f *fakeChunkRepo) ListByJobID(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*types.Chunk, error) {
	return f.created, nil
}

func (f *fakeChunkRepo) ListByCandidateID(ctx context.Context, tx *gorm.DB, candidateID uuid.UUID) ([]*types.Chunk, error) {
	return f.created, nil
}

func (f *fakeChunkRepo) CountByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeEmbeddingRepo struct {
	created []*types.Embedding
	// countAdjust skews the reported count to simulate rows lost in the store.
	countAdjust int64
}

func (f *fakeEmbeddingRepo) CreateBatch(ctx context.Context, tx *gorm.DB, embeddings []*types.Embedding) ([]*types.Embedding, error) {
	f.created = append(f.created, embeddings...)
	return embeddings, nil
}

func (f *fakeEmbeddingRepo) CountByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (int64, error) {
	return int64(len(f.created)) + f.countAdjust, nil
}

// fakeEmbedder returns a vector whose first component fingerprints the input
// so tests can check batch results land at the right chunk index.
type fakeEmbedder struct {
	mu         sync.Mutex
	calls      int
	batchSizes []int
	err        error
	shortBy    int
}

func inputFingerprint(s string) float32 {
	var sum int
	for _, b := range []byte(s) {
		sum += int(b)
	}
	return float32(sum % 9973)
}

func (f *fakeEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls++
	f.batchSizes = append(f.batchSizes, len(inputs))
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, []float32{inputFingerprint(in), 0, 0})
	}
	if f.shortBy > 0 && len(out) > f.shortBy {
		out = out[:len(out)-f.shortBy]
	}
	return out, nil
}

func (f *fakeEmbedder) Model() string { return "test-model" }
func (f *fakeEmbedder) Dim() int      { return 3 }

func newTestIngestor(t *testing.T, docs *fakeDocumentRepo, chunks *fakeChunkRepo, embs *fakeEmbeddingRepo, client *fakeEmbedder) Ingestor {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewIngestor(docs, chunks, embs, client, log)
}

func TestIngestResume(t *testing.T) {
	docs := &fakeDocumentRepo{}
	chunks := &fakeChunkRepo{}
	embs := &fakeEmbeddingRepo{}
	client := &fakeEmbedder{}
	ing := newTestIngestor(t, docs, chunks, embs, client)

	candidateID := uuid.New()
	text := "Experience\nShipped Go services.\nSkills\nGo, SQL"
	res, err := ing.IngestResume(context.Background(), candidateID, "Jane Roe Resume", text)
	if err != nil {
		t.Fatalf("IngestResume: %v", err)
	}

	if len(docs.created) != 1 {
		t.Fatalf("documents created: want=1 got=%d", len(docs.created))
	}
	doc := docs.created[0]
	if doc.SourceType != types.SourceTypeResume {
		t.Fatalf("source type: want=%q got=%q", types.SourceTypeResume, doc.SourceType)
	}
	if doc.JobID != nil {
		t.Fatalf("resume document should not carry a job id")
	}
	if res.DocumentID != doc.ID {
		t.Fatalf("result document id: want=%s got=%s", doc.ID, res.DocumentID)
	}
	if res.ChunkCount != 2 || res.EmbeddedCount != 2 {
		t.Fatalf("counts: want chunks=2 embedded=2 got chunks=%d embedded=%d", res.ChunkCount, res.EmbeddedCount)
	}

	for i, ch := range chunks.created {
		if ch.CandidateID == nil || *ch.CandidateID != candidateID {
			t.Fatalf("chunk %d candidate id not set", i)
		}
		if ch.JobID != nil {
			t.Fatalf("chunk %d should not carry a job id", i)
		}
		if ch.DocumentID != doc.ID {
			t.Fatalf("chunk %d document id: want=%s got=%s", i, doc.ID, ch.DocumentID)
		}
		if ch.Position != i {
			t.Fatalf("chunk %d position: got=%d", i, ch.Position)
		}
	}

	if len(embs.created) != 2 {
		t.Fatalf("embeddings created: want=2 got=%d", len(embs.created))
	}
	for i, e := range embs.created {
		if e.ChunkID != chunks.created[i].ID {
			t.Fatalf("embedding %d chunk id mismatch", i)
		}
		if e.Model != "test-model" || e.Dim != 3 {
			t.Fatalf("embedding %d model/dim: got %q/%d", i, e.Model, e.Dim)
		}
		want := inputFingerprint(chunks.created[i].Content)
		if got := e.Vector.Slice()[0]; got != want {
			t.Fatalf("embedding %d vector fingerprint: want=%v got=%v", i, want, got)
		}
	}
}

func TestIngestResumeEmptyText(t *testing.T) {
	ing := newTestIngestor(t, &fakeDocumentRepo{}, &fakeChunkRepo{}, &fakeEmbeddingRepo{}, &fakeEmbedder{})
	_, err := ing.IngestResume(context.Background(), uuid.New(), "Empty", "   \n\t ")
	if !errors.Is(err, apierr.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestIngestJDUsesNextVersion(t *testing.T) {
	docs := &fakeDocumentRepo{nextVersion: 3}
	chunks := &fakeChunkRepo{}
	ing := newTestIngestor(t, docs, chunks, &fakeEmbeddingRepo{}, &fakeEmbedder{})

	jobID := uuid.New()
	res, err := ing.IngestJD(context.Background(), jobID, "Backend Engineer", "Requirements\n5+ years of Go")
	if err != nil {
		t.Fatalf("IngestJD: %v", err)
	}
	if res.Version != 3 {
		t.Fatalf("version: want=3 got=%d", res.Version)
	}
	if docs.created[0].Version != 3 {
		t.Fatalf("document version: want=3 got=%d", docs.created[0].Version)
	}
	if docs.created[0].SourceType != types.SourceTypeJD {
		t.Fatalf("source type: want=%q got=%q", types.SourceTypeJD, docs.created[0].SourceType)
	}
	for i, ch := range chunks.created {
		if ch.JobID == nil || *ch.JobID != jobID {
			t.Fatalf("chunk %d job id not set", i)
		}
		if ch.CandidateID != nil {
			t.Fatalf("chunk %d should not carry a candidate id", i)
		}
	}
}

func TestIngestEmbedsInOrderAcrossBatches(t *testing.T) {
	chunks := &fakeChunkRepo{}
	embs := &fakeEmbeddingRepo{}
	client := &fakeEmbedder{}
	ing := newTestIngestor(t, &fakeDocumentRepo{}, chunks, embs, client)

	// Long enough for well over one embedding batch of 64 windows.
	var b strings.Builder
	b.WriteString("Experience\n")
	for i := 0; i < 70000; i++ {
		fmt.Fprintf(&b, "line %d of a very long work history. ", i)
	}

	res, err := ing.IngestResume(context.Background(), uuid.New(), "Long Resume", b.String())
	if err != nil {
		t.Fatalf("IngestResume: %v", err)
	}
	if res.ChunkCount <= embedBatchSize {
		t.Fatalf("test needs more than one batch, got %d chunks", res.ChunkCount)
	}
	if client.calls < 2 {
		t.Fatalf("expected multiple gateway calls, got %d", client.calls)
	}
	for _, size := range client.batchSizes {
		if size > embedBatchSize {
			t.Fatalf("batch size %d exceeds limit %d", size, embedBatchSize)
		}
	}
	for i, e := range embs.created {
		want := inputFingerprint(chunks.created[i].Content)
		if got := e.Vector.Slice()[0]; got != want {
			t.Fatalf("embedding %d not aligned with its chunk", i)
		}
	}
}

func TestIngestEmbedderErrorPropagates(t *testing.T) {
	boom := errors.New("gateway down")
	ing := newTestIngestor(t, &fakeDocumentRepo{}, &fakeChunkRepo{}, &fakeEmbeddingRepo{}, &fakeEmbedder{err: boom})
	_, err := ing.IngestResume(context.Background(), uuid.New(), "Resume", "Skills\nGo")
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped gateway error, got %v", err)
	}
}

func TestIngestShortEmbedBatchFails(t *testing.T) {
	embs := &fakeEmbeddingRepo{}
	ing := newTestIngestor(t, &fakeDocumentRepo{}, &fakeChunkRepo{}, embs, &fakeEmbedder{shortBy: 1})
	_, err := ing.IngestResume(context.Background(), uuid.New(), "Resume", "Experience\nGo\nSkills\nSQL")
	if err == nil {
		t.Fatalf("want error on short embedding batch")
	}
	if len(embs.created) != 0 {
		t.Fatalf("no embeddings should persist after a short batch, got %d", len(embs.created))
	}
}

func TestIngestFailsWhenStoredCountsDiverge(t *testing.T) {
	embs := &fakeEmbeddingRepo{countAdjust: -1}
	ing := newTestIngestor(t, &fakeDocumentRepo{}, &fakeChunkRepo{}, embs, &fakeEmbedder{})
	_, err := ing.IngestResume(context.Background(), uuid.New(), "Resume", "Experience\nGo\nSkills\nSQL")
	if err == nil {
		t.Fatalf("want error when stored chunk and embedding counts diverge")
	}
	if !strings.Contains(err.Error(), "persisted inconsistently") {
		t.Fatalf("want consistency error, got %v", err)
	}
}
