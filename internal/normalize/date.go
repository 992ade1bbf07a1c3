package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthNumbers = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

const monthPattern = `(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

var (
	usDateRe      = regexp.MustCompile(`(?i)` + monthPattern + `\s+(\d{1,2}),?\s+(\d{4})`)
	ukDateRe      = regexp.MustCompile(`(?i)(\d{1,2})\s+` + monthPattern + `\s+(\d{4})`)
	isoDateRe     = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	numericDateRe = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
	monthDayRe    = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})$`)
)

// ParseDate extracts a calendar date from free-form text. Grammars are tried
// in a fixed priority order: US month-first, UK day-first, ISO, then numeric
// day-first. The first match that forms a valid calendar date wins; matches
// that name impossible dates fall through to the next grammar.
func ParseDate(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}

	if m := usDateRe.FindStringSubmatch(text); m != nil {
		month := monthNumber(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if d, ok := calendarDate(year, month, day); ok {
			return d, true
		}
	}

	if m := ukDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := monthNumber(m[2])
		year, _ := strconv.Atoi(m[3])
		if d, ok := calendarDate(year, month, day); ok {
			return d, true
		}
	}

	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, ok := calendarDate(year, time.Month(month), day); ok {
			return d, true
		}
	}

	if m := numericDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if d, ok := calendarDate(year, time.Month(month), day); ok {
			return d, true
		}
	}

	return time.Time{}, false
}

// ParseDateString is ParseDate with the result formatted as YYYY-MM-DD.
// An empty string means no date was found.
func ParseDateString(text string) string {
	d, ok := ParseDate(text)
	if !ok {
		return ""
	}
	return d.Format("2006-01-02")
}

// ResolveMonthDay resolves a short "Month Day" form with no year, as seen in
// listing closing text. The year defaults to the current one; a Jan-Mar month
// seen while now is in Nov-Dec means the close is after year end, so next
// year is used instead. The rule is deliberately narrow: months outside
// Jan-Mar never roll over.
func ResolveMonthDay(monthDay string, now time.Time) (time.Time, bool) {
	m := monthDayRe.FindStringSubmatch(strings.TrimSpace(monthDay))
	if m == nil {
		return time.Time{}, false
	}

	month := monthNumber(m[1])
	day, _ := strconv.Atoi(m[2])

	year := now.Year()
	if month <= time.March && now.Month() >= time.November {
		year++
	}

	return calendarDate(year, month, day)
}

func monthNumber(name string) time.Month {
	if len(name) < 3 {
		return time.January
	}
	if m, ok := monthNumbers[strings.ToLower(name[:3])]; ok {
		return m
	}
	return time.January
}

// calendarDate builds a date and rejects combinations the calendar does not
// have, like February 30th, which time.Date would silently normalize.
func calendarDate(year int, month time.Month, day int) (time.Time, bool) {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
