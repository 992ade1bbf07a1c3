package scrape

// Competition is the canonical record produced by every extraction strategy.
// Field names and nesting are stable: the digest-building collaborator
// consumes this JSON directly.
type Competition struct {
	URL             string              `json:"url"`
	Site            string              `json:"site"`
	Title           string              `json:"title"`
	NormalizedTitle string              `json:"normalized_title"`
	Brand           string              `json:"brand,omitempty"`
	PrizeSummary    string              `json:"prize_summary"`
	PrizeValue      *int                `json:"prize_value,omitempty"`
	ClosingDate     string              `json:"closing_date,omitempty"`
	Prompt          string              `json:"prompt,omitempty"`
	WordLimit       int                 `json:"word_limit,omitempty"`
	EntryMethod     string              `json:"entry_method,omitempty"`
	Winner          *WinnerNotification `json:"winner_notification,omitempty"`
	ScrapedAt       string              `json:"scraped_at,omitempty"`
}

// WinnerNotification carries winner notification and selection details
// recovered from a page's structured FAQ metadata.
type WinnerNotification struct {
	NotificationText string `json:"notification_text"`
	NotificationDate string `json:"notification_date,omitempty"`
	NotificationDays int    `json:"notification_days,omitempty"`
	SelectionText    string `json:"selection_text"`
	SelectionDate    string `json:"selection_date,omitempty"`
}

// SourceError records a per-source failure. Site is set for listing scrapes,
// URL for detail fetches.
type SourceError struct {
	Site    string `json:"site,omitempty"`
	URL     string `json:"url,omitempty"`
	Message string `json:"error"`
}

// ListingResult is the output envelope of a full listing scrape. Partial is
// true iff Errors is non-empty; partial output is usable-but-incomplete,
// never a failure.
type ListingResult struct {
	Competitions []Competition `json:"competitions"`
	ScrapeDate   string        `json:"scrape_date"`
	Errors       []SourceError `json:"errors"`
	Partial      bool          `json:"partial"`
}

// DetailResult is the output envelope of a detail batch fetch.
type DetailResult struct {
	Details    []Competition `json:"details"`
	ScrapeDate string        `json:"scrape_date"`
	Errors     []SourceError `json:"errors"`
	Partial    bool          `json:"partial"`
}

// URLsResult lists the competition URLs found per site, for debugging.
type URLsResult struct {
	Sites  map[string][]string `json:"sites"`
	Errors []SourceError       `json:"errors"`
}
