package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateString(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
	}{
		// US month-first
		{"January 5, 2024", "2024-01-05"},
		{"Jan 5, 2024", "2024-01-05"},
		{"Ends December 31 2025", "2025-12-31"},
		// UK day-first
		{"5 January 2024", "2024-01-05"},
		{"5 Jan 2024", "2024-01-05"},
		{"Closes 31 December 2025", "2025-12-31"},
		// ISO
		{"2024-12-31", "2024-12-31"},
		{"deadline 2024-02-29", "2024-02-29"},
		// Numeric day-first
		{"31/12/2024", "2024-12-31"},
		{"31-12-2024", "2024-12-31"},
		{"Ends: 5/1/2024", "2024-01-05"},
		// No date
		{"soon", ""},
		{"", ""},
		{"open until further notice", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ParseDateString(tc.text), "input: %q", tc.text)
	}
}

func TestParseDateRejectsImpossibleDates(t *testing.T) {
	// February 30th is not a calendar date and must not be stored as one.
	_, ok := ParseDate("February 30, 2024")
	assert.False(t, ok)

	_, ok = ParseDate("2024-13-01")
	assert.False(t, ok)

	// 31/02/2024 fails the numeric grammar's validity check.
	_, ok = ParseDate("31/02/2024")
	assert.False(t, ok)
}

func TestParseDateGrammarPriority(t *testing.T) {
	// Month-first wins over day-first when both could match.
	d, ok := ParseDate("May 3 2024 or 3 May 2024")
	assert.True(t, ok)
	assert.Equal(t, "2024-05-03", d.Format("2006-01-02"))
}

func TestResolveMonthDay(t *testing.T) {
	june := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	november := time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC)
	december := time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		monthDay string
		now      time.Time
		expected string
		found    bool
	}{
		// Mid-year: always current year.
		{"Jan 15", june, "2025-01-15", true},
		{"Aug 1", june, "2025-08-01", true},
		// Year-end rollover: Jan-Mar close dates seen in Nov-Dec mean next year.
		{"Jan 15", november, "2026-01-15", true},
		{"February 2", december, "2026-02-02", true},
		{"Mar 31", december, "2026-03-31", true},
		// Months outside Jan-Mar never roll over.
		{"Apr 10", december, "2025-04-10", true},
		{"Dec 25", december, "2025-12-25", true},
		// Not a month-day form.
		{"next week", june, "", false},
		{"Jan 15, 2026", june, "", false},
	}

	for _, tc := range testCases {
		d, ok := ResolveMonthDay(tc.monthDay, tc.now)
		assert.Equal(t, tc.found, ok, "input: %q", tc.monthDay)
		if tc.found {
			assert.Equal(t, tc.expected, d.Format("2006-01-02"), "input: %q", tc.monthDay)
		}
	}
}
