package retrieval

import (
	"context"
	"fmt"

	"github.com/abuharish02/Lead-gen-ai-backend/knowledge"

	"go.uber.org/zap"
)

// Context is the unified retrieval result for one query. It is built fresh
// per call and never mutated afterwards.
type Context struct {
	Query            string            `json:"query"`
	ContextType      string            `json:"context_type"`
	Knowledge        []knowledge.Match `json:"knowledge_base"`
	Industries       []IndustryMatch   `json:"industry_specific"`
	Technologies     []TechnologyMatch `json:"technology_specific"`
	DetectedIndustry string            `json:"detected_industry,omitempty"`
}

// Retriever composes knowledge-store similarity search with the two static
// rule tables. It holds no per-query state.
type Retriever struct {
	store  *knowledge.Store
	logger *zap.Logger
}

func NewRetriever(store *knowledge.Store, logger *zap.Logger) *Retriever {
	return &Retriever{store: store, logger: logger}
}

// Retrieve runs the three lookups for the query. contextType is carried
// through for downstream prompt phrasing only; it does not change what is
// retrieved.
func (r *Retriever) Retrieve(ctx context.Context, query, contextType string) (*Context, error) {
	matches, err := r.store.RelevantContext(ctx, query, knowledge.DefaultTopK, knowledge.DefaultThreshold)
	if err != nil {
		return nil, fmt.Errorf("knowledge lookup failed: %w", err)
	}

	result := &Context{
		Query:            query,
		ContextType:      contextType,
		Knowledge:        matches,
		Industries:       MatchIndustries(query),
		Technologies:     MatchTechnologies(query),
		DetectedIndustry: DetectIndustry(query),
	}

	r.logger.Debug("retrieval context built",
		zap.String("context_type", contextType),
		zap.Int("knowledge_matches", len(result.Knowledge)),
		zap.Int("industry_matches", len(result.Industries)),
		zap.Int("technology_matches", len(result.Technologies)),
		zap.String("detected_industry", result.DetectedIndustry))

	return result, nil
}
