package analyzer

import (
	"math"
	"time"

	"github.com/abuharish02/Lead-gen-ai-backend/knowledge"
	"github.com/abuharish02/Lead-gen-ai-backend/retrieval"
)

// Company size buckets accepted in company_size.
const (
	SizeStartup    = "startup"
	SizeSmall      = "small"
	SizeMedium     = "medium"
	SizeLarge      = "large"
	SizeEnterprise = "enterprise"
	SizeUnknown    = "unknown"
)

// Score range. 0 means "unscored"; the parser and synthesizer default to
// DefaultScore when a score cannot be recovered at all.
const (
	ScoreMin     = 0.0
	ScoreMax     = 10.0
	DefaultScore = 5.0
)

// Contact mirrors the contact_info object of the response schema. Nil
// pointers serialize as JSON null, matching the "or null" contract.
type Contact struct {
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (c Contact) isEmpty() bool {
	return c.Email == nil && c.Phone == nil && c.Address == nil
}

// RAGInsights carries the retrieval-derived enrichment attached to every
// record.
type RAGInsights struct {
	DetectedIndustry        string         `json:"detected_industry,omitempty"`
	RelevantServices        []string       `json:"relevant_services"`
	TechnologyOpportunities []string       `json:"technology_opportunities"`
	IndustryBenchmarks      map[string]any `json:"industry_benchmarks"`
	ConfidenceScore         float64        `json:"confidence_score"`
}

// AnalysisRecord is the canonical analysis output. Every field is populated
// on the way out; the synthesizer fills anything the model failed to supply.
type AnalysisRecord struct {
	CompanyName          string   `json:"company_name"`
	Industry             string   `json:"industry"`
	BusinessPurpose      string   `json:"business_purpose"`
	CompanySize          string   `json:"company_size"`
	Technologies         []string `json:"technologies"`
	ContactInfo          Contact  `json:"contact_info"`
	PainPoints           []string `json:"pain_points"`
	Recommendations      []string `json:"recommendations"`
	DigitalMaturityScore float64  `json:"digital_maturity_score"`
	UrgencyScore         float64  `json:"urgency_score"`
	PotentialValue       string   `json:"potential_value"`
	OutreachStrategy     string   `json:"outreach_strategy"`
	ParsingNote          string   `json:"parsing_note,omitempty"`

	URL                  string           `json:"url,omitempty"`
	ScrapedAt            time.Time        `json:"scraped_at,omitzero"`
	PageTitle            string           `json:"page_title,omitempty"`
	MetaDescription      string           `json:"meta_description,omitempty"`
	DetectedTechnologies []string         `json:"detected_technologies,omitempty"`
	RAGInsights          *RAGInsights     `json:"rag_insights,omitempty"`
	KnowledgeBaseInfo    *knowledge.Stats `json:"knowledge_base_info,omitempty"`
}

// RAGAnalysis bundles every retrieval result gathered for one page.
type RAGAnalysis struct {
	General          []knowledge.Match
	IndustryItems    []knowledge.Item
	TechnologyItems  []knowledge.Item
	DetectedIndustry string
	Retrieval        *retrieval.Context
	Technologies     []string
}

// ClampScore forces v into the canonical score range. Non-finite values
// (NaN, ±Inf from string coercion) collapse to 0, the unscored sentinel.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ScoreMin
	}
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}

func validCompanySize(s string) bool {
	switch s {
	case SizeStartup, SizeSmall, SizeMedium, SizeLarge, SizeEnterprise, SizeUnknown:
		return true
	}
	return false
}
