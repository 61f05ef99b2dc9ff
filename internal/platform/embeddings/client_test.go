package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("EMBEDDINGS_BASE_URL", srv.URL)
	t.Setenv("EMBEDDINGS_MODEL", "test-model")
	t.Setenv("EMBEDDINGS_DIM", "3")

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	c, err := NewClient(log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv
}

func TestEmbedRequestShapeAndOrdering(t *testing.T) {
	var captured embeddingsRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Fatalf("path: want=%q got=%q", "/v1/embeddings", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		// Deliberately out of order; the client must reassemble by index.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float64{0, 3, 4}},
				{"index": 0, "embedding": []float64{2, 0, 0}},
			},
		})
	})

	vecs, err := c.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if captured.Model != "test-model" {
		t.Fatalf("model: want=%q got=%q", "test-model", captured.Model)
	}
	if len(captured.Input) != 2 || captured.Input[0] != "first" {
		t.Fatalf("inputs not preserved: got=%v", captured.Input)
	}
	if len(vecs) != 2 {
		t.Fatalf("vector count: want=2 got=%d", len(vecs))
	}
	if vecs[0][0] != 1 || vecs[0][1] != 0 {
		t.Fatalf("index reassembly broken: vecs[0]=%v", vecs[0])
	}
	for i, v := range vecs {
		var sum float64
		for _, f := range v {
			sum += float64(f) * float64(f)
		}
		if math.Abs(sum-1.0) > 1e-6 {
			t.Fatalf("vector %d not unit length: norm^2=%f", i, sum)
		}
	}
}

func TestEmbedDimensionMismatchIsFatal(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 0, "embedding": []float64{1, 2}},
			},
		})
	})

	if _, err := c.Embed(context.Background(), []string{"text"}); err == nil {
		t.Fatalf("expected dimension mismatch error, got nil")
	}
}

func TestEmbedUpstreamFailurePropagates(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model load failed", http.StatusInternalServerError)
	})

	_, err := c.Embed(context.Background(), []string{"text"})
	if err == nil {
		t.Fatalf("expected upstream error, got nil")
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("want typed upstream error, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Code != "upstream_failure" {
		t.Fatalf("upstream error mapping: want=502/upstream_failure got=%d/%s", apiErr.Status, apiErr.Code)
	}
}

func TestEmbedEmptyInputNoCall(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	vecs, err := c.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 0 {
		t.Fatalf("want empty result, got %d vectors", len(vecs))
	}
	if called {
		t.Fatalf("no HTTP call expected for empty input")
	}
}
