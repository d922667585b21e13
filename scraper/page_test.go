package scraper

import (
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}
	return doc
}

func TestExtractContactInfo(t *testing.T) {
	text := `Contact us at info@acme.test or sales@acme.test.
	Duplicate: info@acme.test. Call +1 (555) 010-0199 or 555-0102-334.
	Short number 12345 should be skipped.`

	info := extractContactInfo(text)

	if len(info.Emails) != 2 {
		t.Errorf("expected 2 unique emails, got %v", info.Emails)
	}
	if len(info.Phones) == 0 {
		t.Fatalf("expected phone numbers, got none")
	}
	for _, p := range info.Phones {
		if countDigits(p) < 7 {
			t.Errorf("phone %q has fewer than 7 digits", p)
		}
	}
}

func TestExtractContactInfoEmpty(t *testing.T) {
	info := extractContactInfo("no contact details on this page")
	if !info.IsEmpty() {
		t.Errorf("expected empty contact info, got %+v", info)
	}
}

func TestDetectTechnologies(t *testing.T) {
	html := `<html><head>
		<meta name="generator" content="WordPress 6.4">
		<script src="/wp-content/themes/acme/app.js"></script>
		<script>gtag('config', 'G-123');</script>
	</head><body></body></html>`

	headers := http.Header{}
	headers.Set("Server", "nginx/1.25")
	headers.Set("Cf-Ray", "abc123")

	techs := detectTechnologies(headers, docFromHTML(t, html))

	want := map[string]bool{
		"Nginx":            true,
		"Cloudflare":       true,
		"WordPress":        true,
		"Google Analytics": true,
	}
	got := make(map[string]bool, len(techs))
	for _, tech := range techs {
		if got[tech] {
			t.Errorf("technology %q listed twice", tech)
		}
		got[tech] = true
	}
	for name := range want {
		if !got[name] {
			t.Errorf("expected %q detected, got %v", name, techs)
		}
	}
}

func TestDetectTechnologiesNone(t *testing.T) {
	techs := detectTechnologies(http.Header{}, docFromHTML(t, "<html><body>plain page</body></html>"))
	if len(techs) != 0 {
		t.Errorf("expected none, got %v", techs)
	}
}

func TestPageMetadata(t *testing.T) {
	html := `<html><head>
		<title>Acme Corp - Home</title>
		<meta name="description" content="Industrial supplies">
	</head><body>
		<script>ignore me</script>
		<p>Welcome to Acme.</p>
		<img src="/logo.png">
		<a href="/about">About</a>
		<a href="#">Skip</a>
		<a href="https://partner.test/page">Partner</a>
	</body></html>`

	doc := docFromHTML(t, html)

	if got := pageTitle(doc); got != "Acme Corp - Home" {
		t.Errorf("title: got %q", got)
	}
	if got := metaDescription(doc); got != "Industrial supplies" {
		t.Errorf("description: got %q", got)
	}
	if text := pageText(doc); !strings.Contains(text, "Welcome to Acme.") || strings.Contains(text, "ignore me") {
		t.Errorf("page text wrong: %q", text)
	}

	images := pageImages(doc, "https://acme.test")
	if len(images) != 1 || images[0] != "https://acme.test/logo.png" {
		t.Errorf("images: got %v", images)
	}

	links := pageLinks(doc, "https://acme.test")
	if len(links) != 2 {
		t.Fatalf("expected 2 links (fragment skipped), got %v", links)
	}
	if links[0] != "https://acme.test/about" {
		t.Errorf("relative link not resolved: %q", links[0])
	}
}

func TestResolveURL(t *testing.T) {
	testCases := []struct {
		name     string
		base     string
		ref      string
		expected string
	}{
		{"Relative", "https://acme.test/a/", "../b", "https://acme.test/b"},
		{"Absolute", "https://acme.test", "https://other.test/x", "https://other.test/x"},
		{"Mailto", "https://acme.test", "mailto:info@acme.test", ""},
		{"Javascript", "https://acme.test", "javascript:void(0)", ""},
		{"Empty", "https://acme.test", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveURL(tc.base, tc.ref); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
