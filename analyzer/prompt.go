package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abuharish02/Lead-gen-ai-backend/knowledge"
	"github.com/abuharish02/Lead-gen-ai-backend/scraper"
)

// Character caps applied when a prompt embeds page content or knowledge
// snippets. Gemini-class models handle far more, but trimmed prompts keep
// latency and cost predictable.
const (
	promptContentCap  = 2000
	legacyContentCap  = 1500
	knowledgeCap      = 200
	maxIndustryItems  = 2
	maxTechItems      = 3
	maxGeneralMatches = 3
)

const analysisInstructions = `
CRITICAL: You must respond with ONLY a valid JSON object. No additional text, explanations, or formatting.

Required JSON structure:
{
    "company_name": "string",
    "industry": "string",
    "business_purpose": "string",
    "company_size": "startup|small|medium|large|enterprise",
    "technologies": ["list", "of", "technologies"],
    "contact_info": {
        "email": "string or null",
        "phone": "string or null",
        "address": "string or null"
    },
    "pain_points": ["list", "of", "pain", "points"],
    "recommendations": ["list", "of", "recommendations"],
    "digital_maturity_score": 5,
    "urgency_score": 5,
    "potential_value": "string describing potential value",
    "outreach_strategy": "string describing recommended approach"
}

Respond with ONLY the JSON object:`

const outreachInstructions = `
Respond with ONLY a valid JSON object:
{
    "subject": "email subject line",
    "body": "full email body",
    "call_to_action": "specific next step to propose",
    "personalization_notes": ["points", "that", "personalize", "this", "message"]
}`

const proposalInstructions = `
Respond with ONLY a valid JSON object:
{
    "title": "proposal title",
    "executive_summary": "short executive summary",
    "proposed_services": ["list", "of", "services"],
    "expected_outcomes": ["list", "of", "outcomes"],
    "timeline": "estimated timeline",
    "investment_range": "estimated investment range"
}`

const enhancementInstructions = `
CRITICAL: Respond with ONLY a valid JSON object using the same structure as the
original analysis. Improve pain_points, recommendations, potential_value and
outreach_strategy using the added context. Keep every other field unless the
context clearly contradicts it.

Respond with ONLY the JSON object:`

// Composer assembles model prompts from scraped pages and retrieval
// context. Instruction blocks live in a named registry so deployments can
// override the response contract without forking the builders.
type Composer struct {
	templates map[string]string
}

func NewComposer() *Composer {
	return &Composer{templates: map[string]string{
		"analysis":        analysisInstructions,
		"legacy_analysis": analysisInstructions,
		"outreach":        outreachInstructions,
		"proposal":        proposalInstructions,
		"enhancement":     enhancementInstructions,
	}}
}

// Register installs or replaces the instruction block for name.
func (c *Composer) Register(name, block string) {
	c.templates[name] = block
}

func (c *Composer) instructions(name string) string {
	if block, ok := c.templates[name]; ok {
		return block
	}
	return analysisInstructions
}

// AnalysisPrompt builds the retrieval-enriched analysis prompt.
func (c *Composer) AnalysisPrompt(page *scraper.ScrapeResult, rag *RAGAnalysis) string {
	var b strings.Builder

	b.WriteString("Analyze this business website for lead generation purposes.\n\n")
	fmt.Fprintf(&b, "WEBSITE DATA:\nURL: %s\nTitle: %s\nDescription: %s\nContent: %s\n",
		page.URL, page.Title, page.Description, capText(page.Content, promptContentCap))
	if len(page.Technologies) > 0 {
		fmt.Fprintf(&b, "Detected technologies: %s\n", strings.Join(page.Technologies, ", "))
	}

	if rag != nil {
		if rag.DetectedIndustry != "" {
			fmt.Fprintf(&b, "\nDETECTED INDUSTRY: %s\n", rag.DetectedIndustry)
		}
		writeItems(&b, "RELEVANT INDUSTRY KNOWLEDGE:", rag.IndustryItems, maxIndustryItems)
		writeItems(&b, "TECHNOLOGY INSIGHTS:", rag.TechnologyItems, maxTechItems)
		if len(rag.General) > 0 {
			b.WriteString("\nRELEVANT IT SERVICES KNOWLEDGE:\n")
			for i, m := range rag.General {
				if i >= maxGeneralMatches {
					break
				}
				fmt.Fprintf(&b, "- %s: %s\n", m.Item.Category, capText(m.Item.Content, knowledgeCap))
			}
		}
		if rag.Retrieval != nil {
			for _, im := range rag.Retrieval.Industries {
				fmt.Fprintf(&b, "\nKnown %s pain points: %s\n", im.Industry, strings.Join(im.PainPoints, "; "))
			}
		}
	}

	b.WriteString(c.instructions("analysis"))
	return b.String()
}

// LegacyPrompt builds the retrieval-free prompt used when no knowledge base
// is configured.
func (c *Composer) LegacyPrompt(page *scraper.ScrapeResult) string {
	var b strings.Builder
	b.WriteString("Analyze this business website for lead generation purposes.\n\n")
	fmt.Fprintf(&b, "URL: %s\nTitle: %s\nDescription: %s\nContent: %s\n",
		page.URL, page.Title, page.Description, capText(page.Content, legacyContentCap))
	b.WriteString(c.instructions("legacy_analysis"))
	return b.String()
}

// OutreachPrompt builds the personalized outreach message prompt.
func (c *Composer) OutreachPrompt(rec *AnalysisRecord, templateType string) string {
	if templateType == "" {
		templateType = "introduction"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Create a personalized %s outreach email for this company.\n\n", templateType)
	writeRecordSummary(&b, rec)
	b.WriteString(c.instructions("outreach"))
	return b.String()
}

// ProposalPrompt builds the service proposal prompt.
func (c *Composer) ProposalPrompt(rec *AnalysisRecord, serviceFocus string) string {
	var b strings.Builder
	b.WriteString("Create a service proposal for this company")
	if serviceFocus != "" {
		fmt.Fprintf(&b, " focused on %s", serviceFocus)
	}
	b.WriteString(".\n\n")
	writeRecordSummary(&b, rec)
	b.WriteString(c.instructions("proposal"))
	return b.String()
}

// EnhancementPrompt builds the prompt that refines an existing record with
// fresh retrieval context.
func (c *Composer) EnhancementPrompt(rec *AnalysisRecord, rag *RAGAnalysis) string {
	var b strings.Builder
	b.WriteString("Enhance this existing company analysis with additional context.\n\nORIGINAL ANALYSIS:\n")
	writeRecordSummary(&b, rec)
	if rag != nil {
		writeItems(&b, "ADDITIONAL KNOWLEDGE:", rag.IndustryItems, maxIndustryItems)
		if len(rag.General) > 0 {
			b.WriteString("\nADDITIONAL SERVICES CONTEXT:\n")
			for i, m := range rag.General {
				if i >= maxGeneralMatches {
					break
				}
				fmt.Fprintf(&b, "- %s: %s\n", m.Item.Category, capText(m.Item.Content, knowledgeCap))
			}
		}
	}
	b.WriteString(c.instructions("enhancement"))
	return b.String()
}

func writeRecordSummary(b *strings.Builder, rec *AnalysisRecord) {
	fmt.Fprintf(b, "Company: %s\nIndustry: %s\nBusiness purpose: %s\nCompany size: %s\n",
		rec.CompanyName, rec.Industry, rec.BusinessPurpose, rec.CompanySize)
	if len(rec.Technologies) > 0 {
		fmt.Fprintf(b, "Technologies: %s\n", strings.Join(rec.Technologies, ", "))
	}
	if len(rec.PainPoints) > 0 {
		fmt.Fprintf(b, "Pain points: %s\n", strings.Join(rec.PainPoints, "; "))
	}
	if len(rec.Recommendations) > 0 {
		fmt.Fprintf(b, "Recommendations: %s\n", strings.Join(rec.Recommendations, "; "))
	}
	fmt.Fprintf(b, "Digital maturity score: %.1f\nUrgency score: %.1f\n",
		rec.DigitalMaturityScore, rec.UrgencyScore)
	if rec.PotentialValue != "" {
		fmt.Fprintf(b, "Potential value: %s\n", rec.PotentialValue)
	}
}

func writeItems(b *strings.Builder, heading string, items []knowledge.Item, max int) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + heading + "\n")
	for i, it := range items {
		if i >= max {
			break
		}
		fmt.Fprintf(b, "- %s: %s\n", it.Category, capText(it.Content, knowledgeCap))
	}
}

func capText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back off to a rune boundary so a multi-byte character is never split.
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
