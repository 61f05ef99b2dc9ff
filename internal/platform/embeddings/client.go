package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/hirescreen/hirescreen-backend/internal/platform/apierr"
	"github.com/hirescreen/hirescreen-backend/internal/platform/logger"
	"github.com/hirescreen/hirescreen-backend/internal/utils"
)

// Client maps ordered text inputs to ordered unit vectors of fixed
// dimension. One instance is constructed at process start and injected into
// everything that embeds; the underlying model handle lives in the external
// service and is reused across calls.
type Client interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
	Model() string
	Dim() int
}

type client struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	dim        int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	baseURL := strings.TrimRight(utils.GetEnv("EMBEDDINGS_BASE_URL", "", log), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing EMBEDDINGS_BASE_URL")
	}
	apiKey := utils.GetEnv("EMBEDDINGS_API_KEY", "", log)
	model := utils.GetEnv("EMBEDDINGS_MODEL", "BAAI/bge-base-en-v1.5", log)
	dim := utils.GetEnvAsInt("EMBEDDINGS_DIM", 768, log)
	if dim <= 0 {
		return nil, fmt.Errorf("EMBEDDINGS_DIM must be positive, got %d", dim)
	}

	return &client{
		log:        log.With("service", "EmbeddingsClient"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		dim:        dim,
	}, nil
}

func (c *client) Model() string { return c.model }
func (c *client) Dim() int      { return c.dim }

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed returns one L2-normalized vector per input, in input order. Failures
// propagate; the engine never retries embedding calls.
func (c *client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}

	clean := make([]string, len(inputs))
	for i := range inputs {
		s := strings.TrimSpace(inputs[i])
		if s == "" {
			s = " "
		}
		clean[i] = s
	}

	req := embeddingsRequest{
		Model: c.model,
		Input: clean,
	}

	var resp embeddingsResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}

	out := make([][]float32, len(clean))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			continue
		}
		if len(d.Embedding) != c.dim {
			return nil, fmt.Errorf("embeddings response dimension mismatch: want=%d got=%d", c.dim, len(d.Embedding))
		}
		out[d.Index] = normalize(d.Embedding)
	}

	for i := range out {
		if out[i] == nil {
			return nil, fmt.Errorf("embeddings response missing vector for input %d (requested=%d returned=%d)", i, len(clean), len(resp.Data))
		}
	}
	return out, nil
}

func (c *client) do(ctx context.Context, payload interface{}, into interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal embeddings request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build embeddings request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.New(http.StatusBadGateway, "upstream_failure",
			fmt.Errorf("embeddings request failed: %w", err))
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read embeddings response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return apierr.New(http.StatusBadGateway, "upstream_failure",
			fmt.Errorf("embeddings request failed: status=%d body=%s", res.StatusCode, truncate(string(raw), 512)))
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("decode embeddings response: %w", err)
	}
	return nil
}

func normalize(in []float64) []float32 {
	var sum float64
	for _, f := range in {
		sum += f * f
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(in))
	if norm == 0 {
		return out
	}
	for i, f := range in {
		out[i] = float32(f / norm)
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
