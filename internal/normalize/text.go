package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// DefaultWordLimit is assumed when a page mentions no usable limit.
const DefaultWordLimit = 25

var wordLimitRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*words?\s*or\s*less`),
	regexp.MustCompile(`(?i)in\s*(\d+)\s*words?`),
	regexp.MustCompile(`(?i)(\d+)\s*word\s*limit`),
	regexp.MustCompile(`(?i)maximum\s*(\d+)\s*words?`),
}

// WordLimit extracts the entry word limit from text. Phrasings are tried in
// order and the first match inside the [1,100] sanity range wins; anything
// else yields the supplied default.
func WordLimit(text string, def int) int {
	for _, re := range wordLimitRes {
		if m := re.FindStringSubmatch(text); m != nil {
			limit, err := strconv.Atoi(m[1])
			if err == nil && limit >= 1 && limit <= 100 {
				return limit
			}
		}
	}
	return def
}

var prizeValueRe = regexp.MustCompile(`\$\s*([\d,]+)`)

// PrizeValue extracts a dollar amount from prize text, taking the first
// digit group after a currency marker. Thousands separators are tolerated.
func PrizeValue(text string) (int, bool) {
	m := prizeValueRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

var titlePrefixes = []string{
	"win ", "win a ", "win an ", "win the ", "win 1 of ", "win one of ",
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]+`)

// Title normalizes a competition title into a dedup key: lowercased, one
// leading "win ..." prefix stripped, punctuation squashed to spaces,
// whitespace collapsed. Idempotent. Never shown to users.
func Title(title string) string {
	normalized := strings.ToLower(title)
	for _, prefix := range titlePrefixes {
		if strings.HasPrefix(normalized, prefix) {
			normalized = normalized[len(prefix):]
			break
		}
	}
	normalized = nonAlnumRe.ReplaceAllString(normalized, " ")
	return strings.Join(strings.Fields(normalized), " ")
}

var dayWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// DayCount converts a day count word to its number. Digit strings are
// accepted as-is; unrecognized words mean no count, not an error.
func DayCount(word string) (int, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if n, err := strconv.Atoi(word); err == nil {
		return n, true
	}
	n, ok := dayWords[word]
	return n, ok
}

var promptRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)tell us .*? in \d+ words or less[.!?]?`),
	regexp.MustCompile(`(?is)in \d+ words or less,? .*?[.!?]`),
	regexp.MustCompile(`(?is)complete the sentence[:\s]+["']?.*?["']?`),
	regexp.MustCompile(`(?is)answer the question[:\s]+["']?.*?["']?`),
	regexp.MustCompile(`(?is)why do you .*?\?`),
	regexp.MustCompile(`(?is)what makes .*?\?`),
	regexp.MustCompile(`(?is)describe .*? in \d+ words`),
}

// Prompt scans full page text for the competition entry question using a
// fixed priority list of phrase patterns. The first match is returned
// verbatim, trimmed with its first letter capitalized.
func Prompt(text string) string {
	for _, re := range promptRes {
		if m := re.FindString(text); m != "" {
			return CapitalizeFirst(strings.TrimSpace(m))
		}
	}
	return ""
}

// CapitalizeFirst upper-cases the first rune of s.
func CapitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
