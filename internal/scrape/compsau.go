package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"compscout/scraper/internal/browser"
	"compscout/scraper/internal/normalize"

	"github.com/PuerkitoBio/goquery"
)

const fullTextLimit = 10000

// competitionsAU extracts from competitions.com.au. Listing cards are Bootstrap
// .card elements; detail pages carry an FAQPage JSON-LD block with winner
// notification answers.
type competitionsAU struct{}

func newCompetitionsAU() *competitionsAU { return &competitionsAU{} }

func (c *competitionsAU) Site() string { return "competitions.com.au" }

func (c *competitionsAU) Match(url string) bool {
	return strings.Contains(url, "competitions.com.au")
}

var (
	fullDateRe  = regexp.MustCompile(`(?i)Ends?\s+(\w+\s+\d{1,2},?\s*\d{4})`)
	endsTodayRe = regexp.MustCompile(`(?i)Ends?\s+Today`)
	daysLeftRe  = regexp.MustCompile(`(?i)(\d+)\s+days?\s+left`)
	// Short form: "Ends Jan 5" with no year. The day must not run into a
	// comma or further digits, which would make it the start of a full date.
	shortDateRe = regexp.MustCompile(`(?i)Ends?\s+([A-Za-z]+\s+\d{1,2})(?:[^,\d]|$)`)
)

// closingDate resolves a card's closing text to YYYY-MM-DD. Phrasings are
// tried in order: explicit full date, "Ends Today", "N days left", then the
// short month-day form with year inference.
func (c *competitionsAU) closingDate(cardText string, now time.Time) string {
	if m := fullDateRe.FindStringSubmatch(cardText); m != nil {
		if d := normalize.ParseDateString(m[1]); d != "" {
			return d
		}
	}
	if endsTodayRe.MatchString(cardText) {
		return now.Format("2006-01-02")
	}
	if m := daysLeftRe.FindStringSubmatch(cardText); m != nil {
		days, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, days).Format("2006-01-02")
	}
	if m := shortDateRe.FindStringSubmatch(cardText); m != nil {
		if d, ok := normalize.ResolveMonthDay(m[1], now); ok {
			return d.Format("2006-01-02")
		}
	}
	return ""
}

// Listings walks the .card elements on a listing page. Sponsored exit cards
// and cards without the words-or-less tag are skipped, as are cards whose
// detail link cannot be found.
func (c *competitionsAU) Listings(page *browser.Page, now time.Time) []Competition {
	var results []Competition

	page.Doc.Find(".card").Each(func(_ int, card *goquery.Selection) {
		if card.Find(`a[href*="/exit/"]`).Length() > 0 {
			return
		}

		cardText := card.Text()
		if !strings.Contains(strings.ToLower(cardText), "words or less") {
			return
		}

		href := firstAttr(card, "href", "a.loadcomp", `a[href*="/win-"]`, `a[href*="/competition/"]`)
		if href == "" {
			return
		}

		title := firstText(card, "h2 a", "h2", "h5")
		prize := firstText(card, ".badge-success", `[class*="prize"]`)
		brand := firstText(card, `a[href*="/tag/brand/"]`)

		comp := Competition{
			URL:             resolveURL(page.URL, href),
			Site:            c.Site(),
			Title:           title,
			NormalizedTitle: normalize.Title(title),
			Brand:           brand,
			PrizeSummary:    prize,
			ClosingDate:     c.closingDate(cardText, now),
		}
		if value, ok := normalize.PrizeValue(prize); ok {
			comp.PrizeValue = &value
		}

		results = append(results, comp)
	})

	return results
}

var (
	detailPromptRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:tell us|share|describe|explain|complete)[^.]*?\d+\s*words[^.]*`),
		regexp.MustCompile(`(?i)in \d+ words or less[^.]*\.`),
		regexp.MustCompile(`(?i)(?:answer|entry)[^.]*?\d+\s*words[^.]*`),
	}
	detailClosingRe = regexp.MustCompile(`(?i)(?:closes?|ends?|closing)[:\s]*([^\n]+)`)
	detailPrizeRe   = regexp.MustCompile(`(?i)(?:prize pool|total prize|worth|valued at)[:\s]*\$?([\d,]+)`)
	detailMethodRe  = regexp.MustCompile(`(?i)(?:how to enter|to enter)[:\s]*([^.]+\.)`)
)

// Detail extracts a full record from a competition page. Structured FAQ data
// is read first, then the main content text is mined with phrase patterns.
func (c *competitionsAU) Detail(page *browser.Page, url string, now time.Time) Competition {
	winner := winnerNotification(page.Doc)

	text := visibleText(page.HTML, "main", "article", ".content", "#content", "body")
	fullText := truncate(text, fullTextLimit)

	title := strings.TrimSpace(page.Doc.Find("h1").First().Text())

	var prompt string
	for _, re := range detailPromptRes {
		if m := re.FindString(text); m != "" {
			prompt = strings.TrimSpace(m)
			break
		}
	}
	if prompt == "" {
		prompt = normalize.Prompt(fullText)
	}

	var closingDate string
	if m := detailClosingRe.FindStringSubmatch(text); m != nil {
		closingDate = normalize.ParseDateString(strings.TrimSpace(m[1]))
	}

	var prizeSummary string
	if m := detailPrizeRe.FindStringSubmatch(text); m != nil {
		prizeSummary = fmt.Sprintf("$%s", m[1])
	}

	var method string
	if m := detailMethodRe.FindStringSubmatch(text); m != nil {
		method = strings.TrimSpace(m[1])
	}

	comp := Competition{
		URL:             url,
		Site:            c.Site(),
		Title:           title,
		NormalizedTitle: normalize.Title(title),
		Brand:           strings.TrimSpace(page.Doc.Find(`a[href*="/tag/brand/"]`).First().Text()),
		PrizeSummary:    prizeSummary,
		Prompt:          prompt,
		WordLimit:       normalize.WordLimit(fullText, normalize.DefaultWordLimit),
		ClosingDate:     closingDate,
		EntryMethod:     method,
		Winner:          winner,
		ScrapedAt:       now.Format(time.RFC3339),
	}
	if comp.Title == "" {
		comp.Title = "Unknown Competition"
	}
	if value, ok := normalize.PrizeValue(prizeSummary); ok {
		comp.PrizeValue = &value
	}

	return comp
}
