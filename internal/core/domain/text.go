package domain

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
)

// DecodeEntities replaces HTML entities such as &#39; or &amp; with the
// characters they stand for. Webhook titles and snippets often carry them.
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return html.UnescapeString(s)
}

var (
	droppedElements = regexp.MustCompile(`(?is)<(script|style|head)[^>]*>.*?</(script|style|head)>`)
	markupComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	breakingTags    = regexp.MustCompile(`(?i)<(br|hr)\s*/?>|</?(p|div|li|tr|h[1-6]|blockquote)[^>]*>`)
	anyTag          = regexp.MustCompile(`<[^>]+>`)
)

// SnippetText turns a snippet that may carry markup into one line of plain
// text: script and style elements are removed, block tags become spaces,
// remaining tags are stripped, entities are decoded and whitespace is
// collapsed.
func SnippetText(s string) string {
	if strings.ContainsRune(s, '<') {
		s = droppedElements.ReplaceAllString(s, "")
		s = markupComments.ReplaceAllString(s, "")
		s = breakingTags.ReplaceAllString(s, " ")
		s = anyTag.ReplaceAllString(s, "")
	}
	return strings.Join(strings.Fields(DecodeEntities(s)), " ")
}

// resultDateLayouts are tried in order by ParseResultDate.
var resultDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"2 Jan 2006 15:04:05 -0700",
}

// ParseResultDate parses a result date leniently.
// Returns false if no known layout matches.
func ParseResultDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range resultDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RelativeDate formats a result date relative to now: "Today", "Yesterday",
// "3 days ago", "2 weeks ago", and a short calendar date beyond a month.
// The year is included only when it differs from now's year.
// Unparseable dates format as an empty string.
func RelativeDate(date string, now time.Time) string {
	t, ok := ParseResultDate(date)
	if !ok {
		return ""
	}

	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days < 0:
		// Upcoming events fall through to a calendar date.
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	}

	if t.Year() != now.Year() {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("Jan 2")
}

// Pluralise returns "1 result" or "N results" style counts.
func Pluralise(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %ss", n, singular)
}
