package retrieval

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// IndustryMatch pairs a detected industry with its static pain-point and
// opportunity lists.
type IndustryMatch struct {
	Industry      string   `json:"industry"`
	PainPoints    []string `json:"pain_points"`
	Opportunities []string `json:"opportunities"`
}

type industryPattern struct {
	name          string
	painPoints    []string
	opportunities []string
	matcher       *ahocorasick.Matcher
}

// industryPatterns drive the rule-table lookup. Matching keywords are the
// industry name plus its pain-point and opportunity phrases; all matching
// industries are returned, in table order.
var industryPatterns = buildIndustryPatterns()

func buildIndustryPatterns() []industryPattern {
	defs := []struct {
		name          string
		painPoints    []string
		opportunities []string
	}{
		{
			name:          "healthcare",
			painPoints:    []string{"HIPAA compliance", "patient data security", "telehealth integration"},
			opportunities: []string{"digital health solutions", "patient portals", "medical records systems"},
		},
		{
			name:          "finance",
			painPoints:    []string{"regulatory compliance", "data security", "legacy system integration"},
			opportunities: []string{"fintech solutions", "mobile banking", "blockchain integration"},
		},
		{
			name:          "ecommerce",
			painPoints:    []string{"payment processing", "inventory management", "mobile optimization"},
			opportunities: []string{"marketplace integration", "analytics dashboards", "customer experience"},
		},
		{
			name:          "education",
			painPoints:    []string{"remote learning", "student management", "content delivery"},
			opportunities: []string{"learning management systems", "virtual classrooms", "assessment tools"},
		},
	}

	patterns := make([]industryPattern, 0, len(defs))
	for _, def := range defs {
		keywords := make([]string, 0, 1+len(def.painPoints)+len(def.opportunities))
		keywords = append(keywords, def.name)
		for _, kw := range append(append([]string{}, def.painPoints...), def.opportunities...) {
			keywords = append(keywords, strings.ToLower(kw))
		}
		patterns = append(patterns, industryPattern{
			name:          def.name,
			painPoints:    def.painPoints,
			opportunities: def.opportunities,
			matcher:       ahocorasick.NewStringMatcher(keywords),
		})
	}
	return patterns
}

// MatchIndustries scans the query for every industry whose name or keyword
// phrases occur in it, preserving table order.
func MatchIndustries(query string) []IndustryMatch {
	lower := []byte(strings.ToLower(query))

	var out []IndustryMatch
	for _, p := range industryPatterns {
		if len(p.matcher.MatchThreadSafe(lower)) == 0 {
			continue
		}
		out = append(out, IndustryMatch{
			Industry:      p.name,
			PainPoints:    p.painPoints,
			Opportunities: p.opportunities,
		})
	}
	return out
}

type industryDetector struct {
	name    string
	matcher *ahocorasick.Matcher
}

// industryDetectors back DetectIndustry. Order matters: the first industry
// with any keyword hit wins, so the table is a slice, not a map.
var industryDetectors = buildIndustryDetectors()

func buildIndustryDetectors() []industryDetector {
	defs := []struct {
		name     string
		keywords []string
	}{
		{"healthcare", []string{"medical", "health", "doctor", "patient", "clinic", "hospital", "pharmacy"}},
		{"finance", []string{"bank", "financial", "investment", "loan", "credit", "insurance", "trading"}},
		{"retail", []string{"shop", "store", "product", "sale", "discount", "cart", "checkout", "ecommerce"}},
		{"manufacturing", []string{"manufacturing", "factory", "production", "industrial", "machinery"}},
		{"education", []string{"school", "university", "course", "student", "learning", "education"}},
		{"real_estate", []string{"property", "real estate", "home", "house", "rent", "buy", "realtor"}},
		{"restaurant", []string{"restaurant", "food", "menu", "dining", "cafe", "delivery", "catering"}},
		{"legal", []string{"law", "legal", "attorney", "lawyer", "court", "legal services"}},
		{"technology", []string{"software", "tech", "development", "programming", "digital"}},
	}

	detectors := make([]industryDetector, 0, len(defs))
	for _, def := range defs {
		detectors = append(detectors, industryDetector{
			name:    def.name,
			matcher: ahocorasick.NewStringMatcher(def.keywords),
		})
	}
	return detectors
}

// DetectIndustry returns the best-guess industry label for the content, or
// "" when no keyword matches. Given identical content the answer is stable.
func DetectIndustry(content string) string {
	lower := []byte(strings.ToLower(content))
	for _, d := range industryDetectors {
		if len(d.matcher.MatchThreadSafe(lower)) > 0 {
			return d.name
		}
	}
	return ""
}
