package analyzer

import (
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const validPayload = `{
	"company_name": "Acme Corp",
	"industry": "Manufacturing",
	"business_purpose": "Industrial equipment supplier",
	"company_size": "medium",
	"technologies": ["WordPress", "PHP"],
	"contact_info": {"email": "sales@acme.test", "phone": null, "address": null},
	"pain_points": ["outdated website"],
	"recommendations": ["site redesign"],
	"digital_maturity_score": 4,
	"urgency_score": 7,
	"potential_value": "High",
	"outreach_strategy": "Direct email"
}`

func TestParseDirectJSON(t *testing.T) {
	p := NewParser(zap.NewNop())
	rec := p.Parse(validPayload)

	if rec.CompanyName != "Acme Corp" {
		t.Errorf("expected Acme Corp, got %q", rec.CompanyName)
	}
	if rec.CompanySize != "medium" {
		t.Errorf("expected medium, got %q", rec.CompanySize)
	}
	if rec.DigitalMaturityScore != 4 || rec.UrgencyScore != 7 {
		t.Errorf("scores wrong: %v / %v", rec.DigitalMaturityScore, rec.UrgencyScore)
	}
	if rec.ContactInfo.Email == nil || *rec.ContactInfo.Email != "sales@acme.test" {
		t.Error("email not parsed")
	}
	if rec.ContactInfo.Phone != nil {
		t.Error("null phone should stay nil")
	}
	if rec.ParsingNote != "" {
		t.Errorf("direct parse should not set a parsing note, got %q", rec.ParsingNote)
	}
}

func TestParseFencedJSON(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{"JSONFence", "Here is the analysis:\n```json\n" + validPayload + "\n```\nHope this helps!"},
		{"PlainFence", "```\n" + validPayload + "\n```"},
		{"SurroundingProse", "Sure! The result:\n" + validPayload + "\nLet me know if you need anything else."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := NewParser(zap.NewNop()).Parse(tc.text)
			if rec.CompanyName != "Acme Corp" {
				t.Errorf("expected Acme Corp, got %q", rec.CompanyName)
			}
			if len(rec.PainPoints) != 1 || rec.PainPoints[0] != "outdated website" {
				t.Errorf("pain points wrong: %v", rec.PainPoints)
			}
		})
	}
}

func TestParseRejectsWrongShape(t *testing.T) {
	// valid JSON missing the required list fields must not pass validation;
	// the structured-text fallback takes over and defaults apply
	rec := NewParser(zap.NewNop()).Parse(`{"company_name": "X", "industry": "Y", "business_purpose": "Z"}`)
	if rec.ParsingNote == "" {
		t.Error("expected structured-text fallback with a parsing note")
	}
	if rec.DigitalMaturityScore != DefaultScore {
		t.Errorf("expected default score, got %v", rec.DigitalMaturityScore)
	}
}

func TestParseStructuredText(t *testing.T) {
	text := `Based on my review of the site:

Company Name: Acme Corp
Industry: Finance
Business Purpose: Payment processing for small merchants
Company Size: small
Pain Points: [legacy integrations, compliance overhead]
Recommendations: security audit, API modernization
Digital Maturity Score: 6
Urgency: 8
Potential Value: significant`

	rec := NewParser(zap.NewNop()).Parse(text)

	if rec.CompanyName != "Acme Corp" {
		t.Errorf("expected Acme Corp, got %q", rec.CompanyName)
	}
	if rec.Industry != "Finance" {
		t.Errorf("expected Finance, got %q", rec.Industry)
	}
	if len(rec.PainPoints) != 2 || rec.PainPoints[0] != "legacy integrations" {
		t.Errorf("pain points wrong: %v", rec.PainPoints)
	}
	if len(rec.Recommendations) != 2 || rec.Recommendations[1] != "API modernization" {
		t.Errorf("recommendations wrong: %v", rec.Recommendations)
	}
	if rec.DigitalMaturityScore != 6 {
		t.Errorf("expected maturity 6, got %v", rec.DigitalMaturityScore)
	}
	if rec.UrgencyScore != 8 {
		t.Errorf("expected urgency 8, got %v", rec.UrgencyScore)
	}
	if rec.ParsingNote == "" {
		t.Error("structured-text extraction must record a parsing note")
	}
}

func TestParseIsTotal(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{"Empty", ""},
		{"Whitespace", "   \n\t  "},
		{"Prose", "I could not analyze this website, sorry."},
		{"BrokenJSON", `{"company_name": "Acme", "industry":`},
		{"ScoreOutOfRange", "Digital Maturity Score: 47"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := NewParser(zap.NewNop()).Parse(tc.text)
			if rec == nil {
				t.Fatal("Parse must always return a record")
			}
			if rec.CompanyName == "" {
				t.Error("expected defaulted company name")
			}
			if rec.DigitalMaturityScore != DefaultScore || rec.UrgencyScore != DefaultScore {
				t.Errorf("expected default scores, got %v / %v",
					rec.DigitalMaturityScore, rec.UrgencyScore)
			}
		})
	}
}

func TestParseScoreCoercion(t *testing.T) {
	payload := strings.Replace(validPayload, `"digital_maturity_score": 4`, `"digital_maturity_score": "8.5"`, 1)
	payload = strings.Replace(payload, `"urgency_score": 7`, `"urgency_score": 99`, 1)

	rec := NewParser(zap.NewNop()).Parse(payload)
	if rec.DigitalMaturityScore != 8.5 {
		t.Errorf("string score not coerced: %v", rec.DigitalMaturityScore)
	}
	if rec.UrgencyScore != ScoreMax {
		t.Errorf("out-of-range score not clamped: %v", rec.UrgencyScore)
	}
}

func TestParseNonFiniteScore(t *testing.T) {
	payload := strings.Replace(validPayload, `"digital_maturity_score": 4`, `"digital_maturity_score": "NaN"`, 1)
	payload = strings.Replace(payload, `"urgency_score": 7`, `"urgency_score": "Infinity"`, 1)

	rec := NewParser(zap.NewNop()).Parse(payload)
	if rec.DigitalMaturityScore != 0 || rec.UrgencyScore != 0 {
		t.Fatalf("non-finite scores should coerce to unscored, got %v / %v",
			rec.DigitalMaturityScore, rec.UrgencyScore)
	}

	NewSynthesizer(zap.NewNop()).Normalize(rec)
	if rec.DigitalMaturityScore != DefaultScore || rec.UrgencyScore != DefaultScore {
		t.Errorf("unscored fields should normalize to %v, got %v / %v",
			DefaultScore, rec.DigitalMaturityScore, rec.UrgencyScore)
	}
	if _, err := json.Marshal(rec); err != nil {
		t.Errorf("normalized record should encode: %v", err)
	}
}

func TestParseInvalidCompanySize(t *testing.T) {
	payload := strings.Replace(validPayload, `"company_size": "medium"`, `"company_size": "gigantic"`, 1)
	rec := NewParser(zap.NewNop()).Parse(payload)
	if rec.CompanySize != SizeUnknown {
		t.Errorf("expected unknown size, got %q", rec.CompanySize)
	}
}

func TestParseObject(t *testing.T) {
	p := NewParser(zap.NewNop())

	msg, err := p.ParseObject("```json\n{\"subject\": \"Hello\", \"body\": \"Hi there\"}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg["subject"] != "Hello" {
		t.Errorf("unexpected payload: %v", msg)
	}

	if _, err := p.ParseObject("no json here at all"); err == nil {
		t.Error("expected error for prose response")
	}
}

func TestCleanJSONText(t *testing.T) {
	in := "Sure, here you go:\n```json\n{\n  \"a\": 1\n}\n```\nThanks!"
	got := cleanJSONText(in)
	if !strings.HasPrefix(got, "{") || !strings.HasSuffix(got, "}") {
		t.Errorf("fences and prose not stripped: %q", got)
	}
}
