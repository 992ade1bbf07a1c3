package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func faqDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestWinnerNotificationFromFAQ(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">
	{"@context":"https://schema.org","@type":"FAQPage","mainEntity":[
		{"@type":"Question","name":"When will winners be notified?",
		 "acceptedAnswer":{"@type":"Answer","text":"Winners will be notified by email within three business days of the draw."}},
		{"@type":"Question","name":"How are winners selected?",
		 "acceptedAnswer":{"@type":"Answer","text":"Winners are selected by a judging panel on March 3, 2027."}}
	]}
	</script>
	</head><body></body></html>`

	w := winnerNotification(faqDoc(t, html))
	require.NotNil(t, w)
	assert.Contains(t, w.NotificationText, "within three business days")
	assert.Equal(t, 3, w.NotificationDays)
	assert.Empty(t, w.NotificationDate)
	assert.Contains(t, w.SelectionText, "judging panel")
	assert.Equal(t, "2027-03-03", w.SelectionDate)
}

func TestWinnerNotificationNumericDays(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">
	{"@type":"FAQPage","mainEntity":[
		{"name":"Winner notification","acceptedAnswer":{"text":"You will hear from us within 7 days."}}
	]}
	</script>
	</head><body></body></html>`

	w := winnerNotification(faqDoc(t, html))
	require.NotNil(t, w)
	assert.Equal(t, 7, w.NotificationDays)
}

func TestWinnerNotificationSkipsMalformedBlocks(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">{not valid json</script>
	<script type="application/ld+json">
	{"@type":"BreadcrumbList","mainEntity":[{"name":"notified","acceptedAnswer":{"text":"wrong type"}}]}
	</script>
	<script type="application/ld+json">
	{"@type":"FAQPage","mainEntity":[
		{"name":"When are winners notified?","acceptedAnswer":{"text":"Winners are notified on 15 January 2027."}}
	]}
	</script>
	</head><body></body></html>`

	w := winnerNotification(faqDoc(t, html))
	require.NotNil(t, w)
	assert.Equal(t, "2027-01-15", w.NotificationDate)
	assert.NotContains(t, w.NotificationText, "wrong type")
}

func TestWinnerNotificationAbsent(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">
	{"@type":"FAQPage","mainEntity":[
		{"name":"How much does entry cost?","acceptedAnswer":{"text":"Entry is free."}}
	]}
	</script>
	</head><body></body></html>`

	assert.Nil(t, winnerNotification(faqDoc(t, html)))
	assert.Nil(t, winnerNotification(faqDoc(t, `<html><body><p>no structured data</p></body></html>`)))
}
