package knowledge

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/abuharish02/Lead-gen-ai-backend/embedding"

	"go.uber.org/zap"
)

const (
	DefaultTopK      = 5
	DefaultThreshold = 0.3
)

// VectorIndex answers nearest-neighbor queries over the store's embedding
// matrix. Replace swaps the whole matrix; the store re-embeds the full corpus
// on every mutation, so incremental updates are not part of the contract.
type VectorIndex interface {
	Replace(ctx context.Context, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]embedding.Match, error)
}

// MemoryIndex is the default brute-force cosine index.
type MemoryIndex struct {
	mu      sync.RWMutex
	vectors [][]float32
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (m *MemoryIndex) Replace(_ context.Context, vectors [][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors = vectors
	return nil
}

func (m *MemoryIndex) Search(_ context.Context, query []float32, k int) ([]embedding.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return embedding.TopK(query, m.vectors, k), nil
}

// Stats summarizes the loaded corpus.
type Stats struct {
	TotalItems         int            `json:"total_items"`
	Categories         map[string]int `json:"categories"`
	HasEmbeddings      bool           `json:"has_embeddings"`
	EmbeddingDimension int            `json:"embedding_dimension"`
}

// Store owns the knowledge corpus and its embedding matrix. Reads and
// AddItem are safe to call concurrently.
type Store struct {
	dir      string
	embedder embedding.Client
	index    VectorIndex
	logger   *zap.Logger

	mu      sync.RWMutex
	items   []Item
	vectors [][]float32
}

func NewStore(dir string, embedder embedding.Client, index VectorIndex, logger *zap.Logger) *Store {
	if index == nil {
		index = NewMemoryIndex()
	}
	return &Store{
		dir:      dir,
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// Load reads the corpus documents, falls back to the built-in default item
// when nothing was found, and embeds every item content once.
func (s *Store) Load(ctx context.Context) error {
	items := loadCorpus(s.dir, s.logger)
	if len(items) == 0 {
		s.logger.Warn("no knowledge documents found, using built-in defaults",
			zap.String("dir", s.dir))
		items = defaultItems()
	}

	vectors, err := s.embedAll(ctx, items)
	if err != nil {
		return fmt.Errorf("failed to embed knowledge corpus: %w", err)
	}
	if err := s.index.Replace(ctx, vectors); err != nil {
		return fmt.Errorf("failed to build vector index: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.vectors = vectors
	s.mu.Unlock()

	s.logger.Info("knowledge corpus loaded",
		zap.Int("items", len(items)),
		zap.Int("dimension", dimensionOf(vectors)))
	return nil
}

// RelevantContext embeds the query and returns up to topK items whose cosine
// similarity is strictly greater than threshold, best first. An empty result
// is valid. topK <= 0 and threshold <= 0 fall back to the defaults.
func (s *Store) RelevantContext(ctx context.Context, query string, topK int, threshold float64) ([]Match, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	s.mu.RLock()
	empty := len(s.items) == 0
	s.mu.RUnlock()
	if empty {
		return nil, nil
	}

	queryVectors, err := s.embedder.GetEmbeddings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, queryVectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]Match, 0, len(hits))
	for _, hit := range hits {
		if hit.Score <= threshold {
			continue
		}
		if hit.Index < 0 || hit.Index >= len(s.items) {
			continue
		}
		matches = append(matches, Match{Item: s.items[hit.Index], Similarity: hit.Score})
	}
	return matches, nil
}

// IndustryContext returns items whose category or keywords mention the
// industry, case-insensitively.
func (s *Store) IndustryContext(industry string) []Item {
	needle := strings.ToLower(strings.TrimSpace(industry))
	if needle == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Item
	for _, it := range s.items {
		if strings.Contains(strings.ToLower(it.Category), "industry - "+needle) || it.hasKeyword(needle) {
			out = append(out, it)
		}
	}
	return out
}

// TechnologyContext returns technology-tagged items matching the technology
// name, plus any item carrying it as a keyword.
func (s *Store) TechnologyContext(technology string) []Item {
	needle := strings.ToLower(strings.TrimSpace(technology))
	if needle == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Item
	for _, it := range s.items {
		category := strings.ToLower(it.Category)
		if (strings.HasPrefix(category, "technology") && strings.Contains(category, needle)) || it.hasKeyword(needle) {
			out = append(out, it)
		}
	}
	return out
}

// AddItem appends one item and re-embeds the whole corpus. The corpus is
// small and mutated rarely, so full recomputation wins over incremental
// bookkeeping.
func (s *Store) AddItem(ctx context.Context, item Item) error {
	s.mu.RLock()
	items := make([]Item, len(s.items), len(s.items)+1)
	copy(items, s.items)
	s.mu.RUnlock()

	items = append(items, item)

	vectors, err := s.embedAll(ctx, items)
	if err != nil {
		return fmt.Errorf("failed to re-embed corpus: %w", err)
	}
	if err := s.index.Replace(ctx, vectors); err != nil {
		return fmt.Errorf("failed to rebuild vector index: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.vectors = vectors
	s.mu.Unlock()
	return nil
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make(map[string]int)
	for _, it := range s.items {
		categories[it.TopCategory()]++
	}

	return Stats{
		TotalItems:         len(s.items),
		Categories:         categories,
		HasEmbeddings:      len(s.vectors) > 0,
		EmbeddingDimension: dimensionOf(s.vectors),
	}
}

func (s *Store) embedAll(ctx context.Context, items []Item) ([][]float32, error) {
	contents := make([]string, len(items))
	for i, it := range items {
		contents[i] = it.Content
	}
	vectors, err := s.embedder.GetEmbeddings(ctx, contents)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(items) {
		return nil, fmt.Errorf("embedding count %d does not match item count %d", len(vectors), len(items))
	}
	return vectors, nil
}

func dimensionOf(vectors [][]float32) int {
	if len(vectors) == 0 {
		return 0
	}
	return len(vectors[0])
}
