package scrape

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"compscout/scraper/internal/browser"
	"compscout/scraper/internal/normalize"

	"github.com/PuerkitoBio/goquery"
)

// netRewards extracts from netrewards.com.au. The listing page has no stable
// card markup, so records are anchored on detail-page links and the data is
// mined from the text of the nearest enclosing container. Dates use the
// site's own "Ends: DD MM YY" convention.
type netRewards struct{}

func newNetRewards() *netRewards { return &netRewards{} }

func (n *netRewards) Site() string { return "netrewards.com.au" }

func (n *netRewards) Match(url string) bool {
	return strings.Contains(url, "netrewards.com.au")
}

var (
	nrTitleRe = regexp.MustCompile(`(?i)Win[^\n]+`)
	nrPrizeRe = regexp.MustCompile(`Prize Value:\s*\$([\d,]+)`)
	nrEndsRe  = regexp.MustCompile(`Ends:\s*(\d{1,2})\s+(\d{1,2})\s+(\d{2})`)
	// The brand is the first standalone line of plain words before the title.
	nrBrandRe   = regexp.MustCompile(`(?m)^([A-Za-z][A-Za-z\s&-]+)\s*(?:\||\n)`)
	nrToEnterRe = regexp.MustCompile(`(?i)TO ENTER:\s*([^\n]+)`)
	nrPromptRe  = regexp.MustCompile(`(?i)(?:tell us|in \d+ words or less)[^.?!]*[.?!]`)
)

// closingDate turns the two-digit-year "Ends: 30 12 25" form into YYYY-MM-DD.
func (n *netRewards) closingDate(text string) string {
	m := nrEndsRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return normalize.ParseDateString(fmt.Sprintf("%s/%s/20%s", m[1], m[2], m[3]))
}

// Listings finds every detail-page link, walks up to the container that holds
// the competition copy, and mines title, prize and closing date from its
// text. Links whose container yields no title are dropped.
func (n *netRewards) Listings(page *browser.Page, now time.Time) []Competition {
	var results []Competition
	seen := make(map[string]bool)

	page.Doc.Find(`a[href*="/competitions/"]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		url := resolveURL(page.URL, strings.TrimSpace(href))
		if !strings.Contains(url, "netrewards.com.au/competitions/") || seen[url] {
			return
		}
		seen[url] = true

		text := containerText(link)

		title := strings.TrimSpace(nrTitleRe.FindString(text))
		if title == "" {
			return
		}

		var prize string
		if m := nrPrizeRe.FindStringSubmatch(text); m != nil {
			prize = fmt.Sprintf("$%s", m[1])
		}

		comp := Competition{
			URL:             url,
			Site:            n.Site(),
			Title:           title,
			NormalizedTitle: normalize.Title(title),
			PrizeSummary:    prize,
			ClosingDate:     n.closingDate(text),
		}
		if value, ok := normalize.PrizeValue(prize); ok {
			comp.PrizeValue = &value
		}

		results = append(results, comp)
	})

	return results
}

// containerText climbs from a link to the nearest ancestor whose text
// includes the prize marker, up to five levels, and returns that ancestor's
// visible text. With no such ancestor the last parent reached is used.
func containerText(link *goquery.Selection) string {
	container := link.Parent()
	for i := 0; i < 5 && container.Length() > 0; i++ {
		html, err := goquery.OuterHtml(container)
		if err != nil {
			return ""
		}
		text := visibleText(html)
		if strings.Contains(text, "Prize Value") {
			return text
		}
		parent := container.Parent()
		if parent.Length() == 0 {
			return text
		}
		container = parent
	}

	html, err := goquery.OuterHtml(container)
	if err != nil {
		return ""
	}
	return visibleText(html)
}

// Detail extracts a full record from a competition page. The site has no
// structured FAQ data, so everything comes from text mining.
func (n *netRewards) Detail(page *browser.Page, url string, now time.Time) Competition {
	text := visibleText(page.HTML, "body")
	fullText := truncate(text, fullTextLimit)

	title := strings.TrimSpace(nrTitleRe.FindString(text))

	var prompt string
	if m := nrToEnterRe.FindStringSubmatch(text); m != nil {
		prompt = strings.TrimSpace(m[1])
	} else if m := nrPromptRe.FindString(text); m != "" {
		prompt = strings.TrimSpace(m)
	}
	if prompt == "" {
		prompt = normalize.Prompt(fullText)
	}

	var prize string
	if m := nrPrizeRe.FindStringSubmatch(text); m != nil {
		prize = fmt.Sprintf("$%s", m[1])
	}

	var brand string
	if m := nrBrandRe.FindStringSubmatch(text); m != nil {
		brand = strings.TrimSpace(m[1])
	}

	comp := Competition{
		URL:             url,
		Site:            n.Site(),
		Title:           title,
		NormalizedTitle: normalize.Title(title),
		Brand:           brand,
		PrizeSummary:    prize,
		Prompt:          prompt,
		WordLimit:       normalize.WordLimit(fullText, normalize.DefaultWordLimit),
		ClosingDate:     n.closingDate(text),
		ScrapedAt:       now.Format(time.RFC3339),
	}
	if comp.Title == "" {
		comp.Title = "Unknown Competition"
	}
	if value, ok := normalize.PrizeValue(prize); ok {
		comp.PrizeValue = &value
	}

	return comp
}
