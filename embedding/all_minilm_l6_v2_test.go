package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetEmbeddings(t *testing.T) {
	var received [][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		received = append(received, req.Inputs)
		vectors := make([][]float32, len(req.Inputs))
		for i := range vectors {
			vectors[i] = []float32{1, 2, 3}
		}
		json.NewEncoder(w).Encode(vectors)
	}))
	defer server.Close()

	client := NewAllMinilmL6V2(server.URL)
	out, err := client.GetEmbeddings(context.Background(), []string{"hello", "", "world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(out))
	}

	// empty input never reaches the model and becomes a zero vector
	if len(received) != 1 || len(received[0]) != 2 {
		t.Fatalf("expected one batch of 2 inputs, got %v", received)
	}
	if len(out[1]) != 3 {
		t.Fatalf("expected zero vector of model dimension 3, got %d", len(out[1]))
	}
	for _, v := range out[1] {
		if v != 0 {
			t.Errorf("expected zero vector for empty input, got %v", out[1])
			break
		}
	}
	if out[0][0] != 1 || out[2][2] != 3 {
		t.Errorf("non-empty inputs not mapped back to their positions: %v", out)
	}
}

func TestGetEmbeddingsBatching(t *testing.T) {
	batches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		json.NewDecoder(r.Body).Decode(&req)
		batches++
		if len(req.Inputs) > 2 {
			t.Errorf("batch exceeded limit: %d inputs", len(req.Inputs))
		}
		vectors := make([][]float32, len(req.Inputs))
		for i := range vectors {
			vectors[i] = []float32{1}
		}
		json.NewEncoder(w).Encode(vectors)
	}))
	defer server.Close()

	client := NewAllMinilmL6V2(server.URL)
	client.maxBatchSize = 2

	texts := []string{"a", "b", "c", "d", "e"}
	if _, err := client.GetEmbeddings(context.Background(), texts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batches != 3 {
		t.Errorf("expected 3 batches, got %d", batches)
	}
}

func TestGetEmbeddingsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewAllMinilmL6V2(server.URL)
	if _, err := client.GetEmbeddings(context.Background(), []string{"x"}); err == nil {
		t.Fatal("expected error for failing server")
	}
}
