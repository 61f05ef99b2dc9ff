package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"

	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/embeddings"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/repos"
	"github.com/hirescreen/hirescreen-backend/internal/types"
)

const (
	// embedBatchSize bounds a single gateway request; the upstream service
	// rejects oversized input arrays.
	embedBatchSize    = 64
	maxParallelEmbeds = 4
)

// IngestResult reports what one ingestion persisted.
type IngestResult struct {
	DocumentID    uuid.UUID `json:"document_id"`
	Version       int       `json:"version"`
	ChunkCount    int       `json:"chunk_count"`
	EmbeddedCount int       `json:"embedded_count"`
}

// Ingestor turns raw resume/JD text into persisted chunks and embeddings.
type Ingestor interface {
	IngestResume(ctx context.Context, candidateID uuid.UUID, title, text string) (*IngestResult, error)
	IngestJD(ctx context.Context, jobID uuid.UUID, title, text string) (*IngestResult, error)
}

type ingestor struct {
	documentRepo  repos.DocumentRepo
	chunkRepo     repos.ChunkRepo
	embeddingRepo repos.EmbeddingRepo
	embedder      embeddings.Client
	log           *logger.Logger
	maxTokens     int
	overlap       int
}

func NewIngestor(
	documentRepo repos.DocumentRepo,
	chunkRepo repos.ChunkRepo,
	embeddingRepo repos.EmbeddingRepo,
	embedder embeddings.Client,
	baseLog *logger.Logger,
) Ingestor {
	return &ingestor{
		documentRepo:  documentRepo,
		chunkRepo:     chunkRepo,
		embeddingRepo: embeddingRepo,
		embedder:      embedder,
		log:           baseLog.With("component", "Ingestor"),
		maxTokens:     DefaultMaxTokens,
		overlap:       DefaultOverlap,
	}
}

func (i *ingestor) IngestResume(ctx context.Context, candidateID uuid.UUID, title, text string) (*IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("resume text is empty: %w", apierr.ErrInvalidInput)
	}
	doc := &types.Document{
		SourceType: types.SourceTypeResume,
		Title:      title,
		RawText:    text,
		Version:    1,
		IsActive:   true,
	}
	return i.ingest(ctx, doc, nil, &candidateID)
}

func (i *ingestor) IngestJD(ctx context.Context, jobID uuid.UUID, title, text string) (*IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("jd text is empty: %w", apierr.ErrInvalidInput)
	}
	version, err := i.documentRepo.NextVersionForJob(ctx, nil, jobID)
	if err != nil {
		return nil, err
	}
	doc := &types.Document{
		JobID:      &jobID,
		SourceType: types.SourceTypeJD,
		Title:      title,
		RawText:    text,
		Version:    version,
		IsActive:   true,
	}
	return i.ingest(ctx, doc, &jobID, nil)
}

func (i *ingestor) ingest(ctx context.Context, doc *types.Document, jobID, candidateID *uuid.UUID) (*IngestResult, error) {
	doc, err := i.documentRepo.Create(ctx, nil, doc)
	if err != nil {
		return nil, err
	}

	pieces := ChunkText(doc.RawText, i.maxTokens, i.overlap)
	chunks := make([]*types.Chunk, 0, len(pieces))
	for _, p := range pieces {
		chunks = append(chunks, &types.Chunk{
			DocumentID:  doc.ID,
			JobID:       jobID,
			CandidateID: candidateID,
			Section:     p.Section,
			Heading:     p.Heading,
			Content:     p.Content,
			TokenCount:  p.TokenCount,
			Position:    p.Position,
		})
	}
	chunks, err = i.chunkRepo.CreateBatch(ctx, nil, chunks)
	if err != nil {
		return nil, err
	}

	vectors, err := i.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch for document %s: chunks=%d vectors=%d",
			doc.ID, len(chunks), len(vectors))
	}

	embs := make([]*types.Embedding, 0, len(chunks))
	for idx, ch := range chunks {
		embs = append(embs, &types.Embedding{
			ChunkID: ch.ID,
			Model:   i.embedder.Model(),
			Dim:     i.embedder.Dim(),
			Vector:  pgvector.NewVector(vectors[idx]),
		})
	}
	if _, err := i.embeddingRepo.CreateBatch(ctx, nil, embs); err != nil {
		return nil, err
	}
	if err := i.reconcile(ctx, doc.ID); err != nil {
		return nil, err
	}

	i.log.Info("document ingested",
		"document_id", doc.ID,
		"source_type", doc.SourceType,
		"version", doc.Version,
		"chunks", len(chunks),
	)
	return &IngestResult{
		DocumentID:    doc.ID,
		Version:       doc.Version,
		ChunkCount:    len(chunks),
		EmbeddedCount: len(embs),
	}, nil
}

// reconcile re-counts what the store actually holds for the document. A
// chunk without an embedding row would silently drop out of retrieval, so a
// mismatch fails the ingestion instead.
func (i *ingestor) reconcile(ctx context.Context, documentID uuid.UUID) error {
	chunkCount, err := i.chunkRepo.CountByDocumentID(ctx, nil, documentID)
	if err != nil {
		return err
	}
	embCount, err := i.embeddingRepo.CountByDocumentID(ctx, nil, documentID)
	if err != nil {
		return err
	}
	if chunkCount != embCount {
		return fmt.Errorf("document %s persisted inconsistently: chunks=%d embeddings=%d",
			documentID, chunkCount, embCount)
	}
	return nil
}

// embedChunks calls the gateway in fixed-size batches, a few in flight at a
// time. The result keeps chunk order regardless of batch completion order.
func (i *ingestor) embedChunks(ctx context.Context, chunks []*types.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelEmbeds)
	for lo := 0; lo < len(chunks); lo += embedBatchSize {
		lo := lo
		hi := lo + embedBatchSize
		if hi > len(chunks) {
			hi = len(chunks)
		}
		g.Go(func() error {
			inputs := make([]string, 0, hi-lo)
			for _, ch := range chunks[lo:hi] {
				inputs = append(inputs, ch.Content)
			}
			batch, err := i.embedder.Embed(ctx, inputs)
			if err != nil {
				return fmt.Errorf("embed batch [%d:%d]: %w", lo, hi, err)
			}
			if len(batch) != hi-lo {
				return fmt.Errorf("embed batch [%d:%d]: got %d vectors", lo, hi, len(batch))
			}
			copy(vectors[lo:hi], batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
