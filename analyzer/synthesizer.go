package analyzer

import (
	"strings"

	"github.com/abuharish02/Lead-gen-ai-backend/knowledge"
	"github.com/abuharish02/Lead-gen-ai-backend/scraper"
	"go.uber.org/zap"
)

var (
	genericPainPoints = []string{
		"Limited online presence",
		"Potential technology gaps",
		"Digital marketing opportunities",
	}
	genericRecommendations = []string{
		"Website optimization",
		"Digital marketing strategy",
		"Technology consultation",
	}
)

const (
	defaultPotentialValue   = "To be determined"
	defaultOutreachStrategy = "Professional introduction focusing on digital transformation opportunities"
)

// Synthesizer derives a usable analysis record deterministically from
// scraped data and retrieval context when the model cannot supply one, and
// repairs partial records so every required field is populated.
type Synthesizer struct {
	logger *zap.Logger
}

func NewSynthesizer(logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{logger: logger}
}

// Synthesize builds a complete record without any model output.
func (s *Synthesizer) Synthesize(page *scraper.ScrapeResult, rag *RAGAnalysis) *AnalysisRecord {
	rec := &AnalysisRecord{}
	s.Fill(rec, page, rag)
	s.logger.Info("analysis synthesized from scraped data",
		zap.String("url", page.URL),
		zap.String("industry", rec.Industry))
	return rec
}

// Fill populates every empty required field of rec from the page and the
// retrieval context. Fields already set are left alone.
func (s *Synthesizer) Fill(rec *AnalysisRecord, page *scraper.ScrapeResult, rag *RAGAnalysis) {
	if rec.CompanyName == "" {
		rec.CompanyName = companyFromTitle(page.Title)
	}
	if rec.Industry == "" {
		if rag != nil && rag.DetectedIndustry != "" {
			rec.Industry = titleWord(rag.DetectedIndustry)
		} else {
			rec.Industry = "Unknown"
		}
	}
	if rec.BusinessPurpose == "" {
		switch {
		case page.Description != "":
			rec.BusinessPurpose = page.Description
		case page.Content != "":
			rec.BusinessPurpose = capText(strings.TrimSpace(page.Content), 150)
		default:
			rec.BusinessPurpose = "Unknown"
		}
	}
	if rec.CompanySize == "" || !validCompanySize(rec.CompanySize) {
		rec.CompanySize = SizeUnknown
	}
	if len(rec.Technologies) == 0 {
		rec.Technologies = append([]string(nil), page.Technologies...)
	}
	if rec.ContactInfo.isEmpty() {
		rec.ContactInfo = contactFromPage(page.ContactInfo)
	}
	if len(rec.PainPoints) == 0 {
		rec.PainPoints = metaList(rag, "pain_points", genericPainPoints)
	}
	if len(rec.Recommendations) == 0 {
		rec.Recommendations = metaList(rag, "high_value_services", genericRecommendations)
	}
	if rec.DigitalMaturityScore == 0 {
		rec.DigitalMaturityScore = DefaultScore
	}
	if rec.UrgencyScore == 0 {
		rec.UrgencyScore = DefaultScore
	}
	if rec.PotentialValue == "" {
		rec.PotentialValue = defaultPotentialValue
	}
	if rec.OutreachStrategy == "" {
		rec.OutreachStrategy = defaultOutreachStrategy
	}
}

// Normalize enforces field invariants on an otherwise-filled record: scores
// clamped into range with zero lifted to the default, empty strings and lists
// replaced with fixed placeholders. Idempotent.
func (s *Synthesizer) Normalize(rec *AnalysisRecord) {
	if rec.CompanyName == "" {
		rec.CompanyName = "Unknown"
	}
	if rec.Industry == "" {
		rec.Industry = "Unknown"
	}
	if rec.BusinessPurpose == "" {
		rec.BusinessPurpose = "Unknown"
	}
	if !validCompanySize(rec.CompanySize) {
		rec.CompanySize = SizeUnknown
	}
	if rec.Technologies == nil {
		rec.Technologies = []string{}
	}
	if len(rec.PainPoints) == 0 {
		rec.PainPoints = append([]string(nil), genericPainPoints...)
	}
	if len(rec.Recommendations) == 0 {
		rec.Recommendations = append([]string(nil), genericRecommendations...)
	}
	rec.DigitalMaturityScore = ClampScore(rec.DigitalMaturityScore)
	if rec.DigitalMaturityScore == 0 {
		rec.DigitalMaturityScore = DefaultScore
	}
	rec.UrgencyScore = ClampScore(rec.UrgencyScore)
	if rec.UrgencyScore == 0 {
		rec.UrgencyScore = DefaultScore
	}
	if rec.PotentialValue == "" {
		rec.PotentialValue = defaultPotentialValue
	}
	if rec.OutreachStrategy == "" {
		rec.OutreachStrategy = defaultOutreachStrategy
	}
}

// IsComplete reports whether the record carries every field the response
// contract requires.
func (s *Synthesizer) IsComplete(rec *AnalysisRecord) bool {
	return rec.CompanyName != "" &&
		rec.Industry != "" &&
		rec.BusinessPurpose != "" &&
		len(rec.PainPoints) > 0 &&
		len(rec.Recommendations) > 0 &&
		rec.DigitalMaturityScore != 0 &&
		rec.UrgencyScore != 0
}

// Insights summarizes the retrieval context attached to a finished record.
func (s *Synthesizer) Insights(rag *RAGAnalysis) *RAGInsights {
	if rag == nil {
		return nil
	}
	ins := &RAGInsights{
		DetectedIndustry:        rag.DetectedIndustry,
		RelevantServices:        []string{},
		TechnologyOpportunities: []string{},
		IndustryBenchmarks:      map[string]any{},
		ConfidenceScore:         s.ConfidenceScore(rag),
	}
	for _, m := range rag.General {
		ins.RelevantServices = appendCapped(ins.RelevantServices, m.Item.MetaStrings("solutions"), 2, 5)
	}
	for _, it := range rag.IndustryItems {
		ins.RelevantServices = appendCapped(ins.RelevantServices, it.MetaStrings("high_value_services"), 2, 5)
		if techs := it.MetaStrings("technologies"); len(techs) > 0 {
			ins.IndustryBenchmarks["common_technologies"] = techs
		}
		if pains := it.MetaStrings("pain_points"); len(pains) > 0 {
			ins.IndustryBenchmarks["typical_pain_points"] = pains
		}
	}
	for _, it := range rag.TechnologyItems {
		ins.TechnologyOpportunities = appendCapped(ins.TechnologyOpportunities, it.MetaStrings("opportunities"), 2, 5)
	}
	return ins
}

// ConfidenceScore grades how well the retrieval context supports an
// analysis: knowledge matches, industry detection and technology matches
// each add a fixed weight, plus up to 0.2 from mean match similarity.
func (s *Synthesizer) ConfidenceScore(rag *RAGAnalysis) float64 {
	if rag == nil {
		return 0
	}
	score := 0.0
	if len(rag.General) > 0 {
		score += 0.3
	}
	if rag.DetectedIndustry != "" {
		score += 0.3
	}
	if len(rag.TechnologyItems) > 0 {
		score += 0.2
	}
	if len(rag.General) > 0 {
		sum := 0.0
		for _, m := range rag.General {
			sum += m.Similarity
		}
		mean := sum / float64(len(rag.General))
		if mean > 0.2 {
			mean = 0.2
		}
		if mean > 0 {
			score += mean
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}

func companyFromTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "N/A"
	}
	for _, sep := range []string{" - ", " | ", " – "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
			break
		}
	}
	return strings.TrimSpace(title)
}

func contactFromPage(info scraper.ContactInfo) Contact {
	var c Contact
	if len(info.Emails) > 0 {
		c.Email = &info.Emails[0]
	}
	if len(info.Phones) > 0 {
		c.Phone = &info.Phones[0]
	}
	if len(info.Addresses) > 0 {
		c.Address = &info.Addresses[0]
	}
	return c
}

// metaList gathers up to three values under key from the industry items,
// falling back to the fixed generic list when nothing matched.
func metaList(rag *RAGAnalysis, key string, generic []string) []string {
	if rag != nil {
		var out []string
		for _, it := range rag.IndustryItems {
			out = appendCapped(out, it.MetaStrings(key), 3, 3)
		}
		if len(out) > 0 {
			return out
		}
	}
	return append([]string(nil), generic...)
}

// appendCapped appends up to perSource values from vals, deduplicating and
// never growing dst past total.
func appendCapped(dst []string, vals []string, perSource, total int) []string {
	added := 0
	for _, v := range vals {
		if added >= perSource || len(dst) >= total {
			break
		}
		if containsFold(dst, v) {
			continue
		}
		dst = append(dst, v)
		added++
	}
	return dst
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// knowledgeStats is a convenience for enrichment.
func knowledgeStats(st knowledge.Stats) *knowledge.Stats {
	return &st
}
