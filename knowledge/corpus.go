package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Corpus document filenames probed by Load. Every file is optional.
const (
	servicesFile   = "it_services_knowledge.json"
	technologyFile = "technology_database.json"
	benchmarkFile  = "industry_benchmark.json"
	proposalsFile  = "proposal_templates.json"
	emailsFile     = "email_templates.json"
)

type serviceCategory struct {
	Name            string   `json:"name"`
	PainPoints      []string `json:"pain_points"`
	Solutions       []string `json:"solutions"`
	Keywords        []string `json:"keywords"`
	ValueIndicators []string `json:"value_indicators"`
}

type industryProfile struct {
	CommonTechnologies []string `json:"common_technologies"`
	TypicalPainPoints  []string `json:"typical_pain_points"`
	HighValueServices  []string `json:"high_value_services"`
}

type servicesDocument struct {
	Categories       []serviceCategory          `json:"categories"`
	IndustryProfiles map[string]industryProfile `json:"industry_profiles"`
}

type cmsPlatform struct {
	MarketShare          float64  `json:"market_share"`
	Strengths            []string `json:"strengths"`
	CommonIssues         []string `json:"common_issues"`
	UpgradeOpportunities []string `json:"upgrade_opportunities"`
}

type hostingProvider struct {
	Indicators    []string `json:"indicators"`
	TypicalIssues []string `json:"typical_issues"`
	UpgradePath   string   `json:"upgrade_path"`
}

type framework struct {
	VersionIndicators []string `json:"version_indicators"`
	CommonIssues      []string `json:"common_issues"`
	Opportunities     []string `json:"opportunities"`
}

type technologyDocument struct {
	CMSPlatforms     map[string]cmsPlatform     `json:"cms_platforms"`
	HostingProviders map[string]hostingProvider `json:"hosting_providers"`
	Frameworks       map[string]framework       `json:"frameworks"`
}

// loadCorpus reads every known corpus document under dir and flattens the
// heterogeneous schemas into a uniform item list. Missing files are skipped;
// a malformed file is logged and skipped rather than failing the load.
func loadCorpus(dir string, logger *zap.Logger) []Item {
	var items []Item

	var services servicesDocument
	if readDocument(dir, servicesFile, &services, logger) {
		items = append(items, flattenServices(services)...)
	}

	var tech technologyDocument
	if readDocument(dir, technologyFile, &tech, logger) {
		items = append(items, flattenTechnology(tech)...)
	}

	for _, spec := range []struct {
		file     string
		category string
		kind     string
	}{
		{benchmarkFile, "Benchmark", "benchmark"},
		{proposalsFile, "Template", "template"},
		{emailsFile, "Template", "template"},
	} {
		var doc map[string]json.RawMessage
		if readDocument(dir, spec.file, &doc, logger) {
			items = append(items, flattenGeneric(doc, spec.category, spec.kind, spec.file)...)
		}
	}

	return items
}

func readDocument(dir, name string, v any, logger *zap.Logger) bool {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read knowledge document",
				zap.String("file", name),
				zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("failed to parse knowledge document",
			zap.String("file", name),
			zap.Error(err))
		return false
	}
	return true
}

func flattenServices(doc servicesDocument) []Item {
	var items []Item

	for _, cat := range doc.Categories {
		items = append(items, Item{
			Category: "IT Services - " + cat.Name,
			Content: fmt.Sprintf("Service: %s. Pain points: %s. Solutions: %s.",
				cat.Name, strings.Join(cat.PainPoints, ", "), strings.Join(cat.Solutions, ", ")),
			Keywords: cat.Keywords,
			Metadata: map[string]any{
				"service_type":     cat.Name,
				"pain_points":      cat.PainPoints,
				"solutions":        cat.Solutions,
				"value_indicators": cat.ValueIndicators,
			},
		})
	}

	for _, name := range sortedKeys(doc.IndustryProfiles) {
		profile := doc.IndustryProfiles[name]
		items = append(items, Item{
			Category: "Industry - " + titleCase(name),
			Content: fmt.Sprintf("Industry: %s. Technologies: %s. Pain points: %s. High-value services: %s.",
				name,
				strings.Join(profile.CommonTechnologies, ", "),
				strings.Join(profile.TypicalPainPoints, ", "),
				strings.Join(profile.HighValueServices, ", ")),
			Keywords: append([]string{name}, profile.CommonTechnologies...),
			Metadata: map[string]any{
				"industry":            name,
				"technologies":        profile.CommonTechnologies,
				"pain_points":         profile.TypicalPainPoints,
				"high_value_services": profile.HighValueServices,
			},
		})
	}

	return items
}

func flattenTechnology(doc technologyDocument) []Item {
	var items []Item

	for _, name := range sortedKeys(doc.CMSPlatforms) {
		cms := doc.CMSPlatforms[name]
		items = append(items, Item{
			Category: "Technology - CMS - " + strings.ToUpper(name),
			Content: fmt.Sprintf("CMS: %s. Market share: %g%%. Strengths: %s. Issues: %s. Opportunities: %s.",
				name, cms.MarketShare,
				strings.Join(cms.Strengths, ", "),
				strings.Join(cms.CommonIssues, ", "),
				strings.Join(cms.UpgradeOpportunities, ", ")),
			Keywords: append([]string{name}, cms.Strengths...),
			Metadata: map[string]any{
				"technology":    name,
				"type":          "CMS",
				"market_share":  cms.MarketShare,
				"strengths":     cms.Strengths,
				"issues":        cms.CommonIssues,
				"opportunities": cms.UpgradeOpportunities,
			},
		})
	}

	for _, name := range sortedKeys(doc.HostingProviders) {
		hosting := doc.HostingProviders[name]
		items = append(items, Item{
			Category: "Technology - Hosting - " + titleCase(strings.ReplaceAll(name, "_", " ")),
			Content: fmt.Sprintf("Hosting: %s. Indicators: %s. Issues: %s. Upgrade path: %s.",
				name,
				strings.Join(hosting.Indicators, ", "),
				strings.Join(hosting.TypicalIssues, ", "),
				hosting.UpgradePath),
			Keywords: hosting.Indicators,
			Metadata: map[string]any{
				"technology":   name,
				"type":         "hosting",
				"indicators":   hosting.Indicators,
				"issues":       hosting.TypicalIssues,
				"upgrade_path": hosting.UpgradePath,
			},
		})
	}

	for _, name := range sortedKeys(doc.Frameworks) {
		fw := doc.Frameworks[name]
		items = append(items, Item{
			Category: "Technology - Framework - " + titleCase(name),
			Content: fmt.Sprintf("Framework: %s. Version indicators: %s. Issues: %s. Opportunities: %s.",
				name,
				strings.Join(fw.VersionIndicators, ", "),
				strings.Join(fw.CommonIssues, ", "),
				strings.Join(fw.Opportunities, ", ")),
			Keywords: append([]string{name}, fw.VersionIndicators...),
			Metadata: map[string]any{
				"technology":         name,
				"type":               "framework",
				"version_indicators": fw.VersionIndicators,
				"issues":             fw.CommonIssues,
				"opportunities":      fw.Opportunities,
			},
		})
	}

	return items
}

// flattenGeneric turns free-form benchmark and template documents into one
// item per top-level key, with the raw value serialized as the content.
func flattenGeneric(doc map[string]json.RawMessage, category, kind, source string) []Item {
	var items []Item
	for _, key := range sortedKeys(doc) {
		content := strings.TrimSpace(string(doc[key]))
		if content == "" {
			continue
		}
		items = append(items, Item{
			Category: category + " - " + key,
			Content:  content,
			Keywords: []string{key},
			Metadata: map[string]any{"source": source, "type": kind},
		})
	}
	return items
}

func defaultItems() []Item {
	return []Item{{
		Category: "IT Services",
		Content: "Common IT services include web development, mobile app development, " +
			"cloud migration, cybersecurity consulting, data analytics, and digital transformation.",
		Keywords: []string{"web development", "mobile app", "cloud", "security", "analytics"},
		Metadata: map[string]any{"type": "default"},
	}}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
