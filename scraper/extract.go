package scraper

import (
	"bytes"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// extractMainText pulls the main article text out of an HTML document,
// trying trafilatura first and readability when it comes up empty. The
// second return value is a markdown rendering of the extracted content node,
// "" when only plain text could be recovered.
func (s *WebScraper) extractMainText(body []byte, pageURL string) (string, string) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		s.logger.Warn("failed to parse page URL", zap.String("url", pageURL), zap.Error(err))
		return "", ""
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{
		OriginalURL: parsedURL,
	})
	if err == nil && strings.TrimSpace(result.ContentText) != "" {
		markdown := ""
		if htmlStr, rerr := renderNode(result.ContentNode); rerr == nil {
			if md, merr := htmltomarkdown.ConvertString(htmlStr); merr == nil {
				markdown = md
			}
		}
		return strings.TrimSpace(result.ContentText), markdown
	}
	if err != nil {
		s.logger.Debug("trafilatura extraction failed",
			zap.String("url", pageURL),
			zap.Error(err))
	}

	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(body), parsedURL)
	if err != nil {
		s.logger.Debug("readability extraction failed",
			zap.String("url", pageURL),
			zap.Error(err))
		return "", ""
	}
	return strings.TrimSpace(article.TextContent), ""
}

func renderNode(node *html.Node) (string, error) {
	if node == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}
