package analyzer

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var (
	fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	fencedAnyPattern  = regexp.MustCompile("(?s)```\\s*(\\{.*?\\})\\s*```")
	bracePattern      = regexp.MustCompile(`\{(?:[^{}]|\{[^{}]*\})*\}`)
	fenceMarker       = regexp.MustCompile("```(?:json)?")

	listPattern = regexp.MustCompile(`\[([^\[\]]*)\]`)
)

// structured-text label patterns, matched case-insensitively per line.
var fieldPatterns = map[string]*regexp.Regexp{
	"company_name":     regexp.MustCompile(`(?i)company\s*name\s*[:\-]\s*(.+)`),
	"industry":         regexp.MustCompile(`(?i)industry\s*[:\-]\s*(.+)`),
	"business_purpose": regexp.MustCompile(`(?i)business\s*purpose\s*[:\-]\s*(.+)`),
	"company_size":     regexp.MustCompile(`(?i)company\s*size\s*[:\-]\s*(.+)`),
	"potential_value":  regexp.MustCompile(`(?i)potential\s*value\s*[:\-]\s*(.+)`),
}

var listFieldPatterns = map[string]*regexp.Regexp{
	"pain_points":     regexp.MustCompile(`(?i)pain\s*points?\s*[:\-]\s*(.+)`),
	"recommendations": regexp.MustCompile(`(?i)recommendations?\s*[:\-]\s*(.+)`),
	"technologies":    regexp.MustCompile(`(?i)technolog(?:y|ies)\s*[:\-]\s*(.+)`),
}

var scorePatterns = map[string]*regexp.Regexp{
	"digital_maturity_score": regexp.MustCompile(`(?i)digital\s*maturity\s*(?:score)?\s*[:\-]\s*(\d+(?:\.\d+)?)`),
	"urgency_score":          regexp.MustCompile(`(?i)urgency\s*(?:score)?\s*[:\-]\s*(\d+(?:\.\d+)?)`),
}

// Parser recovers an analysis object from whatever text the model returned.
// Parse is total: when every JSON strategy fails it degrades to structured
// text extraction and returns a defaulted record with a parsing note.
type Parser struct {
	logger *zap.Logger
}

func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Parse runs the strategy cascade over raw and converts the first payload
// that passes structural validation.
func (p *Parser) Parse(raw string) *AnalysisRecord {
	if m, strategy, ok := p.extract(raw); ok {
		p.logger.Debug("model response parsed", zap.String("strategy", strategy))
		return recordFromMap(m)
	}
	p.logger.Warn("model response unparseable, extracting structured text",
		zap.Int("response_len", len(raw)))
	return recordFromMap(p.structuredText(raw))
}

func (p *Parser) extract(raw string) (map[string]any, string, bool) {
	if m, ok := parseCandidate(cleanJSONText(raw)); ok {
		return m, "direct", true
	}
	for _, pat := range []struct {
		name string
		re   *regexp.Regexp
	}{
		{"fenced_json", fencedJSONPattern},
		{"fenced", fencedAnyPattern},
		{"brace", bracePattern},
	} {
		for _, match := range pat.re.FindAllStringSubmatch(raw, -1) {
			candidate := match[0]
			if len(match) > 1 {
				candidate = match[1]
			}
			if m, ok := parseCandidate(candidate); ok {
				return m, pat.name, true
			}
		}
	}
	return nil, "", false
}

// ParseObject parses a generic JSON object response (outreach, proposal)
// with the same cascade but no structured-text fallback.
func (p *Parser) ParseObject(raw string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(cleanJSONText(raw)), &m); err == nil {
		return m, nil
	}
	for _, re := range []*regexp.Regexp{fencedJSONPattern, fencedAnyPattern, bracePattern} {
		for _, match := range re.FindAllStringSubmatch(raw, -1) {
			candidate := match[0]
			if len(match) > 1 {
				candidate = match[1]
			}
			if err := json.Unmarshal([]byte(candidate), &m); err == nil {
				return m, nil
			}
		}
	}
	return nil, errors.New("no JSON object found in model response")
}

// parseCandidate unmarshals text and checks it has the shape of an analysis
// object: the three headline string keys present plus list-typed pain_points
// and recommendations.
func parseCandidate(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, false
	}
	for _, key := range []string{"company_name", "industry", "business_purpose"} {
		if _, ok := m[key]; !ok {
			return nil, false
		}
	}
	for _, key := range []string{"pain_points", "recommendations"} {
		v, ok := m[key]
		if !ok {
			return nil, false
		}
		if _, ok := v.([]any); !ok {
			return nil, false
		}
	}
	return m, true
}

// cleanJSONText strips code fence markers and trims any prose surrounding
// the outermost object, keeping the lines from the first "{" line through
// the last "}" line.
func cleanJSONText(raw string) string {
	cleaned := fenceMarker.ReplaceAllString(raw, "")
	lines := strings.Split(cleaned, "\n")
	start, end := -1, -1
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if start == -1 && strings.HasPrefix(t, "{") {
			start = i
		}
		if strings.HasSuffix(t, "}") {
			end = i
		}
	}
	if start == -1 || end < start {
		return strings.TrimSpace(cleaned)
	}
	return strings.TrimSpace(strings.Join(lines[start:end+1], "\n"))
}

// structuredText is the last-resort extraction for plain prose responses.
// It never fails: unmatched fields keep their defaults.
func (p *Parser) structuredText(raw string) map[string]any {
	m := map[string]any{
		"company_name":           "Unknown",
		"industry":               "Unknown",
		"business_purpose":       "Unknown",
		"company_size":           SizeUnknown,
		"technologies":           []any{},
		"contact_info":           map[string]any{"email": nil, "phone": nil, "address": nil},
		"pain_points":            []any{},
		"recommendations":        []any{},
		"digital_maturity_score": DefaultScore,
		"urgency_score":          DefaultScore,
		"potential_value":        "Unknown",
		"outreach_strategy":      "Standard outreach approach",
		"parsing_note":           "Extracted from structured text response",
	}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for key, re := range fieldPatterns {
			if sub := re.FindStringSubmatch(line); sub != nil {
				m[key] = strings.TrimSpace(sub[1])
			}
		}
		for key, re := range listFieldPatterns {
			if sub := re.FindStringSubmatch(line); sub != nil {
				if items := extractList(sub[1]); len(items) > 0 {
					m[key] = items
				}
			}
		}
		for key, re := range scorePatterns {
			if sub := re.FindStringSubmatch(line); sub != nil {
				if v, err := strconv.ParseFloat(sub[1], 64); err == nil && v >= 1 && v <= 10 {
					m[key] = v
				}
			}
		}
	}
	return m
}

// extractList pulls list items from either a bracketed "[a, b]" form or a
// plain comma-separated tail.
func extractList(s string) []any {
	s = strings.TrimSpace(s)
	if sub := listPattern.FindStringSubmatch(s); sub != nil {
		s = sub[1]
	}
	var items []any
	for _, part := range strings.Split(s, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// recordFromMap converts a parsed payload into a record, coercing the loose
// types models produce (numbers as strings, scalar lists).
func recordFromMap(m map[string]any) *AnalysisRecord {
	rec := &AnalysisRecord{
		CompanyName:          asString(m["company_name"]),
		Industry:             asString(m["industry"]),
		BusinessPurpose:      asString(m["business_purpose"]),
		CompanySize:          strings.ToLower(asString(m["company_size"])),
		Technologies:         asStringList(m["technologies"]),
		PainPoints:           asStringList(m["pain_points"]),
		Recommendations:      asStringList(m["recommendations"]),
		DigitalMaturityScore: asScore(m["digital_maturity_score"]),
		UrgencyScore:         asScore(m["urgency_score"]),
		PotentialValue:       asString(m["potential_value"]),
		OutreachStrategy:     asString(m["outreach_strategy"]),
		ParsingNote:          asString(m["parsing_note"]),
	}
	if !validCompanySize(rec.CompanySize) {
		rec.CompanySize = SizeUnknown
	}
	if contact, ok := m["contact_info"].(map[string]any); ok {
		rec.ContactInfo = Contact{
			Email:   asStringPtr(contact["email"]),
			Phone:   asStringPtr(contact["phone"]),
			Address: asStringPtr(contact["address"]),
		}
	}
	return rec
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func asStringPtr(v any) *string {
	s := asString(v)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
		return nil
	}
	return &s
}

func asStringList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s := asString(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	}
	return nil
}

func asScore(v any) float64 {
	switch t := v.(type) {
	case float64:
		return ClampScore(t)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return ClampScore(f)
		}
	}
	return 0
}
