package embedding

import (
	"context"
	"math"
	"sort"
)

// Client encodes texts into fixed-length sentence-embedding vectors.
type Client interface {
	GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Match is one ranked candidate returned by TopK.
type Match struct {
	Index int
	Score float64
}

// CosineSimilarity returns the cosine of the angle between a and b in [-1, 1].
// Mismatched lengths and zero-norm vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopK ranks candidates by cosine similarity against query, descending.
// Ties keep the candidate with the lower original index first.
func TopK(query []float32, candidates [][]float32, k int) []Match {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = Match{Index: i, Score: CosineSimilarity(query, c)}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}
