package retrieval

import "strings"

// TechnologyMatch pairs a detected technology with its opportunity text.
type TechnologyMatch struct {
	Technology    string `json:"technology"`
	Opportunities string `json:"opportunities"`
}

type technologyIndicator struct {
	name          string
	opportunities string
}

// technologyIndicators is the static technology rule table. Unlike the
// industry table, every matching entry is returned.
var technologyIndicators = []technologyIndicator{
	{"wordpress", "WordPress CMS - opportunities for custom themes, plugins, performance optimization"},
	{"shopify", "Shopify platform - opportunities for custom apps, integrations, design improvements"},
	{"react", "React framework - modern web development, component architecture, performance optimization"},
	{"php", "PHP backend - modernization opportunities, framework migration, performance improvements"},
	{"mysql", "MySQL database - optimization, migration to cloud, backup solutions"},
	{"aws", "AWS cloud services - migration, optimization, managed services implementation"},
	{"ssl", "SSL/Security - certificate management, security audits, compliance improvements"},
}

// MatchTechnologies returns every technology whose name occurs in the query,
// in table order.
func MatchTechnologies(query string) []TechnologyMatch {
	lower := strings.ToLower(query)

	var out []TechnologyMatch
	for _, t := range technologyIndicators {
		if strings.Contains(lower, t.name) {
			out = append(out, TechnologyMatch{Technology: t.name, Opportunities: t.opportunities})
		}
	}
	return out
}
