package scraper

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxImages = 10
	maxLinks  = 20
	maxPhones = 5
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\+?[0-9][0-9\s\-().]{6,14}[0-9]`)

	// Body-text markers mapped to canonical technology names.
	bodyMarkers = []struct {
		marker string
		name   string
	}{
		{"wordpress", "WordPress"},
		{"wp-content", "WordPress"},
		{"shopify", "Shopify"},
		{"woocommerce", "WooCommerce"},
		{"wix.com", "Wix"},
		{"squarespace", "Squarespace"},
		{"react", "React"},
		{"google-analytics", "Google Analytics"},
		{"gtag(", "Google Analytics"},
	}
)

func pageTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func metaDescription(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(`meta[name="description"]`).First().AttrOr("content", ""))
}

func pageText(doc *goquery.Document) string {
	clone := doc.Clone()
	clone.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(clone.Find("body").Text()), " ")
}

func extractContactInfo(text string) ContactInfo {
	info := ContactInfo{}

	seen := make(map[string]bool)
	for _, email := range emailPattern.FindAllString(text, -1) {
		lower := strings.ToLower(email)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		info.Emails = append(info.Emails, email)
	}

	for _, phone := range phonePattern.FindAllString(text, -1) {
		if len(info.Phones) >= maxPhones {
			break
		}
		if countDigits(phone) < 7 {
			continue
		}
		info.Phones = append(info.Phones, strings.TrimSpace(phone))
	}

	return info
}

// detectTechnologies derives a best-effort technology list from response
// headers, the generator meta tag and body markers.
func detectTechnologies(headers http.Header, doc *goquery.Document) []string {
	var techs []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			techs = append(techs, name)
		}
	}

	server := strings.ToLower(headers.Get("Server"))
	if strings.Contains(server, "nginx") {
		add("Nginx")
	}
	if strings.Contains(server, "apache") {
		add("Apache")
	}
	if strings.Contains(server, "cloudflare") || headers.Get("Cf-Ray") != "" {
		add("Cloudflare")
	}

	if generator, ok := doc.Find(`meta[name="generator"]`).First().Attr("content"); ok {
		if name := strings.TrimSpace(strings.SplitN(generator, " ", 2)[0]); name != "" {
			add(name)
		}
	}

	htmlText, _ := doc.Html()
	lower := strings.ToLower(htmlText)
	for _, m := range bodyMarkers {
		if strings.Contains(lower, m.marker) {
			add(m.name)
		}
	}

	return techs
}

func pageImages(doc *goquery.Document, base string) []string {
	var images []string
	doc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if src := resolveURL(base, sel.AttrOr("src", "")); src != "" {
			images = append(images, src)
		}
		return len(images) < maxImages
	})
	return images
}

func pageLinks(doc *goquery.Document, base string) []string {
	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := sel.AttrOr("href", "")
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		if abs := resolveURL(base, href); abs != "" {
			links = append(links, abs)
		}
		return len(links) < maxLinks
	})
	return links
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func resolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	resolved := baseURL.ResolveReference(refURL)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
