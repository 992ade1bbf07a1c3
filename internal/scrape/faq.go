package scrape

import (
	"encoding/json"
	"regexp"
	"strings"

	"compscout/scraper/internal/normalize"

	"github.com/PuerkitoBio/goquery"
)

// faqPage mirrors the schema.org FAQPage JSON-LD shape, limited to the
// fields the notification scan reads.
type faqPage struct {
	Type       string `json:"@type"`
	MainEntity []struct {
		Name           string `json:"name"`
		AcceptedAnswer struct {
			Text string `json:"text"`
		} `json:"acceptedAnswer"`
	} `json:"mainEntity"`
}

var withinDaysRe = regexp.MustCompile(`(?i)within\s+(\w+)\s+(?:business\s+)?days?`)

// winnerNotification scans a page's JSON-LD blocks for FAQPage entries and
// pulls out how and when winners are told. Questions are matched on their
// wording: "notified"/"notification" names feed the notification fields,
// "selected"/"selection" names the selection fields. Blocks that are not
// valid JSON are skipped, and nil means the page carries no such FAQ.
func winnerNotification(doc *goquery.Document) *WinnerNotification {
	var w WinnerNotification

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var page faqPage
		if err := json.Unmarshal([]byte(s.Text()), &page); err != nil {
			return
		}
		if page.Type != "FAQPage" {
			return
		}

		for _, q := range page.MainEntity {
			name := strings.ToLower(q.Name)
			text := q.AcceptedAnswer.Text

			switch {
			case strings.Contains(name, "notified") || strings.Contains(name, "notification"):
				w.NotificationText = text
				w.NotificationDate = normalize.ParseDateString(text)
				if m := withinDaysRe.FindStringSubmatch(text); m != nil {
					if days, ok := normalize.DayCount(m[1]); ok {
						w.NotificationDays = days
					}
				}
			case strings.Contains(name, "selected") || strings.Contains(name, "selection"):
				w.SelectionText = text
				w.SelectionDate = normalize.ParseDateString(text)
			}
		}
	})

	if w.NotificationText == "" && w.SelectionText == "" {
		return nil
	}
	return &w
}
