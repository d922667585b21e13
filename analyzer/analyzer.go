package analyzer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abuharish02/Lead-gen-ai-backend/knowledge"
	"github.com/abuharish02/Lead-gen-ai-backend/pkg/llm"
	"github.com/abuharish02/Lead-gen-ai-backend/retrieval"
	"github.com/abuharish02/Lead-gen-ai-backend/scraper"
	"go.uber.org/zap"
)

const (
	defaultLLMTimeout = 60 * time.Second

	// retrieval queries are condensed to keep embedding requests bounded
	retrievalQueryCap = 1000
)

// Analyzer runs the full pipeline for one URL: scrape, retrieve context,
// prompt the model, parse its response and repair whatever came back.
type Analyzer struct {
	scraper    scraper.Scraper
	model      llm.Client
	store      *knowledge.Store
	retriever  *retrieval.Retriever
	composer   *Composer
	parser     *Parser
	synth      *Synthesizer
	logger     *zap.Logger
	llmTimeout time.Duration
}

// Option configures an Analyzer.
type Option func(*Analyzer)

func WithLLMTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.llmTimeout = d }
}

// New wires an analyzer. store may be nil, in which case retrieval is
// skipped and the plain prompt is used.
func New(sc scraper.Scraper, model llm.Client, store *knowledge.Store, logger *zap.Logger, opts ...Option) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Analyzer{
		scraper:    sc,
		model:      model,
		store:      store,
		composer:   NewComposer(),
		parser:     NewParser(logger),
		synth:      NewSynthesizer(logger),
		logger:     logger,
		llmTimeout: defaultLLMTimeout,
	}
	if store != nil {
		a.retriever = retrieval.NewRetriever(store, logger)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze produces a complete analysis record for url. A scrape failure is
// the only error surfaced: model failures degrade to synthesized output so
// bulk runs always get a record per reachable site.
func (a *Analyzer) Analyze(ctx context.Context, url string) (*AnalysisRecord, error) {
	start := time.Now()

	page, err := a.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", url, err)
	}

	rag := a.ragAnalysis(ctx, page)

	var prompt string
	if rag != nil {
		prompt = a.composer.AnalysisPrompt(page, rag)
	} else {
		prompt = a.composer.LegacyPrompt(page)
	}

	raw, llmErr := a.complete(ctx, prompt)

	var rec *AnalysisRecord
	switch {
	case llmErr != nil || strings.TrimSpace(raw) == "":
		if llmErr != nil {
			a.logger.Warn("model call failed, synthesizing analysis",
				zap.String("url", url), zap.Error(llmErr))
		}
		rec = a.synth.Synthesize(page, rag)
	default:
		rec = a.parser.Parse(raw)
		if !a.synth.IsComplete(rec) {
			a.logger.Info("parsed analysis incomplete, filling from context",
				zap.String("url", url))
			a.synth.Fill(rec, page, rag)
		}
	}

	a.enrich(rec, page, rag)
	a.synth.Normalize(rec)

	a.logger.Info("analysis complete",
		zap.String("url", url),
		zap.String("company", rec.CompanyName),
		zap.String("industry", rec.Industry),
		zap.Duration("took", time.Since(start)))
	return rec, nil
}

// ragAnalysis gathers retrieval context for a scraped page. The three
// lookups are independent and run concurrently; a failed lookup logs and
// leaves its slice empty rather than failing the analysis.
func (a *Analyzer) ragAnalysis(ctx context.Context, page *scraper.ScrapeResult) *RAGAnalysis {
	if a.store == nil {
		return nil
	}

	query := retrieval.CondenseQuery(page.Title+" "+page.Content, retrievalQueryCap)
	rag := &RAGAnalysis{Technologies: page.Technologies}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		rc, err := a.retriever.Retrieve(ctx, query, "business_analysis")
		if err != nil {
			a.logger.Warn("knowledge retrieval failed", zap.Error(err))
			return
		}
		rag.Retrieval = rc
		rag.General = rc.Knowledge
		rag.DetectedIndustry = rc.DetectedIndustry
	}()

	techItems := make([][]knowledge.Item, len(page.Technologies))
	for i, tech := range page.Technologies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			techItems[i] = a.store.TechnologyContext(tech)
		}()
	}

	wg.Wait()

	for _, items := range techItems {
		rag.TechnologyItems = append(rag.TechnologyItems, items...)
	}

	if rag.DetectedIndustry != "" {
		rag.IndustryItems = a.store.IndustryContext(rag.DetectedIndustry)
	}
	return rag
}

func (a *Analyzer) enrich(rec *AnalysisRecord, page *scraper.ScrapeResult, rag *RAGAnalysis) {
	rec.URL = page.URL
	rec.ScrapedAt = page.ScrapedAt
	rec.PageTitle = page.Title
	rec.MetaDescription = page.Description
	rec.DetectedTechnologies = page.Technologies
	if rag != nil {
		rec.RAGInsights = a.synth.Insights(rag)
	}
	if a.store != nil {
		rec.KnowledgeBaseInfo = knowledgeStats(a.store.Stats())
	}
}

func (a *Analyzer) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.llmTimeout)
	defer cancel()
	return a.model.Complete(ctx, prompt)
}

// GenerateOutreach drafts a personalized outreach message for an analyzed
// company. templateType defaults to "introduction".
func (a *Analyzer) GenerateOutreach(ctx context.Context, rec *AnalysisRecord, templateType string) (map[string]any, error) {
	raw, err := a.complete(ctx, a.composer.OutreachPrompt(rec, templateType))
	if err != nil {
		return nil, fmt.Errorf("outreach generation: %w", err)
	}
	msg, err := a.parser.ParseObject(raw)
	if err != nil {
		return nil, fmt.Errorf("outreach response: %w", err)
	}
	return msg, nil
}

// GenerateProposal drafts a service proposal for an analyzed company.
func (a *Analyzer) GenerateProposal(ctx context.Context, rec *AnalysisRecord, serviceFocus string) (map[string]any, error) {
	raw, err := a.complete(ctx, a.composer.ProposalPrompt(rec, serviceFocus))
	if err != nil {
		return nil, fmt.Errorf("proposal generation: %w", err)
	}
	doc, err := a.parser.ParseObject(raw)
	if err != nil {
		return nil, fmt.Errorf("proposal response: %w", err)
	}
	return doc, nil
}

// EnhanceAnalysis reruns retrieval for an existing record and asks the
// model to refine it. On any failure the original record is returned
// unchanged alongside the error.
func (a *Analyzer) EnhanceAnalysis(ctx context.Context, rec *AnalysisRecord) (*AnalysisRecord, error) {
	var rag *RAGAnalysis
	if a.store != nil && a.retriever != nil {
		query := retrieval.CondenseQuery(rec.CompanyName+" "+rec.BusinessPurpose, retrievalQueryCap)
		if rc, err := a.retriever.Retrieve(ctx, query, "enhancement"); err == nil {
			rag = &RAGAnalysis{
				General:          rc.Knowledge,
				DetectedIndustry: rc.DetectedIndustry,
				Retrieval:        rc,
			}
			if rc.DetectedIndustry != "" {
				rag.IndustryItems = a.store.IndustryContext(rc.DetectedIndustry)
			}
		} else {
			a.logger.Warn("enhancement retrieval failed", zap.Error(err))
		}
	}

	raw, err := a.complete(ctx, a.composer.EnhancementPrompt(rec, rag))
	if err != nil {
		return rec, fmt.Errorf("enhancement generation: %w", err)
	}
	enhanced := a.parser.Parse(raw)
	if !a.synth.IsComplete(enhanced) {
		return rec, fmt.Errorf("enhancement response incomplete")
	}
	enhanced.URL = rec.URL
	enhanced.ScrapedAt = rec.ScrapedAt
	enhanced.PageTitle = rec.PageTitle
	enhanced.MetaDescription = rec.MetaDescription
	enhanced.DetectedTechnologies = rec.DetectedTechnologies
	if rag != nil {
		enhanced.RAGInsights = a.synth.Insights(rag)
	} else {
		enhanced.RAGInsights = rec.RAGInsights
	}
	enhanced.KnowledgeBaseInfo = rec.KnowledgeBaseInfo
	a.synth.Normalize(enhanced)
	return enhanced, nil
}
