package embedding

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"Identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"Orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"Opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"MismatchedLength", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"ZeroVector", []float32{0, 0}, []float32{1, 1}, 0},
		{"Scaled", []float32{2, 0}, []float32{5, 0}, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CosineSimilarity(tc.a, tc.b)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestTopK(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{
		{0, 1},      // 0.0
		{1, 0},      // 1.0
		{0.5, 0.5},  // ~0.707
		{-1, 0},     // -1.0
		{0.9, 0.05}, // ~0.998
	}

	matches := TopK(query, candidates, 3)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	wantOrder := []int{1, 4, 2}
	for i, want := range wantOrder {
		if matches[i].Index != want {
			t.Errorf("position %d: expected index %d, got %d", i, want, matches[i].Index)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("scores not descending at position %d", i)
		}
	}
}

func TestTopKTiesAndBounds(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{
		{2, 0},
		{3, 0},
		{4, 0},
	}

	// all candidates score 1.0; ties resolve by ascending index
	matches := TopK(query, candidates, 10)
	if len(matches) != 3 {
		t.Fatalf("expected all 3 candidates, got %d", len(matches))
	}
	for i, m := range matches {
		if m.Index != i {
			t.Errorf("tie order broken: position %d has index %d", i, m.Index)
		}
	}

	if got := TopK(query, nil, 5); len(got) != 0 {
		t.Errorf("expected no matches for empty candidates, got %d", len(got))
	}
	if got := TopK(query, candidates, 0); len(got) != 0 {
		t.Errorf("expected no matches for k=0, got %d", len(got))
	}
}
