package analyzer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/abuharish02/Lead-gen-ai-backend/scraper"
)

func TestAnalysisPromptContent(t *testing.T) {
	c := NewComposer()
	prompt := c.AnalysisPrompt(testPage(), testRAG())

	for _, want := range []string{
		"https://acme.test",
		"Acme Corp - Industrial Supplies",
		"DETECTED INDUSTRY: manufacturing",
		"RELEVANT INDUSTRY KNOWLEDGE:",
		"TECHNOLOGY INSIGHTS:",
		"ONLY a valid JSON object",
		"digital_maturity_score",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnalysisPromptCapsContent(t *testing.T) {
	page := testPage()
	page.Content = strings.Repeat("x", promptContentCap*3)

	prompt := NewComposer().AnalysisPrompt(page, nil)
	if strings.Contains(prompt, strings.Repeat("x", promptContentCap+1)) {
		t.Error("content not capped at promptContentCap")
	}
	if !strings.Contains(prompt, strings.Repeat("x", promptContentCap)) {
		t.Error("capped content missing from prompt")
	}
}

func TestCapTextRuneBoundary(t *testing.T) {
	s := strings.Repeat("é", 10)

	got := capText(s, 5)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	if len(got) > 5 {
		t.Errorf("cap exceeded: %d bytes", len(got))
	}
	if got != strings.Repeat("é", 2) {
		t.Errorf("expected two runes, got %q", got)
	}

	if out := capText("short", 100); out != "short" {
		t.Errorf("text within cap should pass through, got %q", out)
	}
}

func TestLegacyPromptHasNoRetrievalSections(t *testing.T) {
	prompt := NewComposer().LegacyPrompt(testPage())
	if strings.Contains(prompt, "DETECTED INDUSTRY") || strings.Contains(prompt, "RELEVANT INDUSTRY KNOWLEDGE") {
		t.Error("legacy prompt must not carry retrieval sections")
	}
	if !strings.Contains(prompt, "ONLY a valid JSON object") {
		t.Error("legacy prompt missing response contract")
	}
}

func TestRegisterOverridesTemplate(t *testing.T) {
	c := NewComposer()
	c.Register("analysis", "CUSTOM CONTRACT")
	prompt := c.AnalysisPrompt(&scraper.ScrapeResult{URL: "https://x.test"}, nil)
	if !strings.Contains(prompt, "CUSTOM CONTRACT") {
		t.Error("registered template not used")
	}
}

func TestOutreachPromptDefaultsTemplateType(t *testing.T) {
	prompt := NewComposer().OutreachPrompt(&AnalysisRecord{CompanyName: "Acme"}, "")
	if !strings.Contains(prompt, "introduction") {
		t.Error("expected default template type")
	}
	if !strings.Contains(prompt, "Acme") {
		t.Error("record summary missing from prompt")
	}
}
