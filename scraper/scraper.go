package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// ContactInfo holds contact details lifted from page text. Every field may
// carry multiple values.
type ContactInfo struct {
	Emails    []string `json:"emails,omitempty"`
	Phones    []string `json:"phones,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

func (c ContactInfo) IsEmpty() bool {
	return len(c.Emails) == 0 && len(c.Phones) == 0 && len(c.Addresses) == 0
}

// ScrapeResult is the immutable input to the analysis pipeline, produced
// once per request.
type ScrapeResult struct {
	URL          string      `json:"url"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Content      string      `json:"content"`
	ContentMD    string      `json:"content_md,omitempty"`
	Technologies []string    `json:"technologies"`
	ContactInfo  ContactInfo `json:"contact_info"`
	Images       []string    `json:"images,omitempty"`
	Links        []string    `json:"links,omitempty"`
	ScrapedAt    time.Time   `json:"scraped_at"`
}

// Scraper is the page-fetch collaborator contract. A failed scrape is
// terminal for that URL; retry policy belongs to the caller.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*ScrapeResult, error)
}

const (
	maxContentLength = 5000
	// Static fetches yielding less text than this trigger the rendered
	// fallback when a browser is configured.
	minStaticTextLength = 200
)

type Config struct {
	UserAgent      string
	RequestTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		RequestTimeout: 15 * time.Second,
	}
}

// WebScraper fetches a single page over colly and mines it for the fields
// of ScrapeResult.
type WebScraper struct {
	collector *colly.Collector
	browser   *Browser
	logger    *zap.Logger
}

// NewWebScraper builds a scraper. browser may be nil to disable the
// rendered-page fallback.
func NewWebScraper(config *Config, browser *Browser, logger *zap.Logger) *WebScraper {
	if config == nil {
		config = DefaultConfig()
	}

	c := colly.NewCollector(
		colly.UserAgent(config.UserAgent),
		colly.MaxDepth(1),
		colly.IgnoreRobotsTxt(),
	)
	c.SetRequestTimeout(config.RequestTimeout)

	return &WebScraper{
		collector: c,
		browser:   browser,
		logger:    logger,
	}
}

// Scrape fetches the URL and extracts metadata, main text, contact details
// and detected technologies.
func (s *WebScraper) Scrape(ctx context.Context, pageURL string) (*ScrapeResult, error) {
	body, headers, err := s.fetch(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	result, err := s.build(pageURL, body, headers)
	if err != nil {
		return nil, err
	}

	if len(result.Content) < minStaticTextLength && s.browser != nil {
		rendered, rerr := s.browser.FetchHTML(ctx, pageURL)
		if rerr != nil {
			s.logger.Warn("rendered fetch failed, keeping static result",
				zap.String("url", pageURL),
				zap.Error(rerr))
			return result, nil
		}
		renderedResult, rerr := s.build(pageURL, []byte(rendered), headers)
		if rerr == nil && len(renderedResult.Content) > len(result.Content) {
			result = renderedResult
		}
	}

	return result, nil
}

func (s *WebScraper) fetch(pageURL string) ([]byte, http.Header, error) {
	c := s.collector.Clone()

	var (
		body     []byte
		headers  http.Header
		fetchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		if r.Headers != nil {
			headers = *r.Headers
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, nil, err
	}
	c.Wait()

	if fetchErr != nil {
		return nil, nil, fetchErr
	}
	if len(body) == 0 {
		return nil, nil, fmt.Errorf("empty response body")
	}
	return body, headers, nil
}

func (s *WebScraper) build(pageURL string, body []byte, headers http.Header) (*ScrapeResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	text, markdown := s.extractMainText(body, pageURL)
	if text == "" {
		text = pageText(doc)
	}
	if len(text) > maxContentLength {
		text = text[:maxContentLength]
	}

	result := &ScrapeResult{
		URL:          pageURL,
		Title:        pageTitle(doc),
		Description:  metaDescription(doc),
		Content:      text,
		ContentMD:    markdown,
		Technologies: detectTechnologies(headers, doc),
		ContactInfo:  extractContactInfo(pageText(doc)),
		Images:       pageImages(doc, pageURL),
		Links:        pageLinks(doc, pageURL),
		ScrapedAt:    time.Now().UTC(),
	}

	s.logger.Info("page scraped",
		zap.String("url", pageURL),
		zap.String("title", result.Title),
		zap.Int("content_length", len(result.Content)),
		zap.Strings("technologies", result.Technologies))

	return result, nil
}
