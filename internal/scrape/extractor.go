package scrape

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"compscout/scraper/internal/browser"

	"github.com/PuerkitoBio/goquery"
)

// Extractor is one site's extraction strategy: a transform from a loaded
// page to partial records (listings) or a full record (detail). Adding a
// site means one new implementation plus one registry entry.
type Extractor interface {
	// Site returns the site name used in records and the site table.
	Site() string
	// Match reports whether this strategy handles the given URL.
	Match(url string) bool
	// Listings extracts summary records from a listing page.
	Listings(page *browser.Page, now time.Time) []Competition
	// Detail extracts a full record from a competition detail page.
	Detail(page *browser.Page, url string, now time.Time) Competition
}

var extractors = []Extractor{
	newNetRewards(),
	newCompetitionsAU(),
}

// ExtractorFor selects the strategy whose site matches the URL.
func ExtractorFor(url string) (Extractor, bool) {
	for _, e := range extractors {
		if e.Match(url) {
			return e, true
		}
	}
	return nil, false
}

// ForSite selects the strategy registered under a site name.
func ForSite(name string) (Extractor, bool) {
	for _, e := range extractors {
		if e.Site() == name {
			return e, true
		}
	}
	return nil, false
}

// firstText tries selectors in order and returns the first non-empty
// trimmed text. Fallback chains beat nested conditionals here: the page
// layouts drift and the first location that yields anything wins.
func firstText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstAttr tries selectors in order and returns the first non-empty
// attribute value.
func firstAttr(s *goquery.Selection, attr string, selectors ...string) string {
	for _, sel := range selectors {
		if value, ok := s.Find(sel).First().Attr(attr); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// resolveURL makes href absolute against the site's base URL.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

var blockBreakRe = regexp.MustCompile(`(?i)<(?:br\s*/?|/(?:p|div|li|h[1-6]|tr|td|section|article|header|footer|ul|ol|table))>`)

// visibleText approximates the rendered text of HTML: script, style and
// noscript content dropped, block element boundaries turned into newlines so
// line-oriented phrase patterns behave like they would against a browser's
// innerText. Containers are tried in order and the first present one scopes
// the text; with none present the whole document is used.
func visibleText(html string, containers ...string) string {
	broken := blockBreakRe.ReplaceAllString(html, "\n$0")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(broken))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()

	sel := doc.Selection
	for _, container := range containers {
		if found := doc.Find(container); found.Length() > 0 {
			sel = found.First()
			break
		}
	}
	return sel.Text()
}

// truncate bounds the text handed to phrase-matching so a pathological page
// doesn't dominate extraction time.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}
