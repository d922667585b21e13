package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type embedRequest struct {
	Inputs []string `json:"inputs"`
}

// AllMinilmL6V2 talks to a text-embeddings-inference server running the
// all-MiniLM-L6-v2 sentence-transformer model.
type AllMinilmL6V2 struct {
	BaseURL      string
	HTTPClient   *http.Client
	maxBatchSize int
}

func NewAllMinilmL6V2(baseURL string) *AllMinilmL6V2 {
	return &AllMinilmL6V2{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxBatchSize: 32,
	}
}

// GetEmbeddings encodes texts in batches. Empty strings are never sent to
// the model; they come back as zero vectors of the model's dimension.
func (c *AllMinilmL6V2) GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	// Indices of texts that actually need model inference.
	pending := make([]int, 0, len(texts))
	for i, t := range texts {
		if t != "" {
			pending = append(pending, i)
		}
	}

	var dim int
	for start := 0; start < len(pending); start += c.maxBatchSize {
		end := start + c.maxBatchSize
		if end > len(pending) {
			end = len(pending)
		}

		batch := make([]string, 0, end-start)
		for _, idx := range pending[start:end] {
			batch = append(batch, texts[idx])
		}

		vectors, err := c.embed(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embedding service returned %d vectors for %d inputs", len(vectors), len(batch))
		}

		for j, idx := range pending[start:end] {
			out[idx] = vectors[j]
			dim = len(vectors[j])
		}
	}

	for i := range out {
		if out[i] == nil {
			out[i] = make([]float32, dim)
		}
	}

	return out, nil
}

func (c *AllMinilmL6V2) embed(ctx context.Context, texts []string) ([][]float32, error) {
	jsonData, err := json.Marshal(embedRequest{Inputs: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/embed", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(body))
	}

	var vectors [][]float32
	if err := json.Unmarshal(body, &vectors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return vectors, nil
}
