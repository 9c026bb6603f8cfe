package parser

import "time"

// dateLayout matches the source pub-date text, e.g. "14 Jul 2020".
const dateLayout = "2 Jan 2006"

// parseDate attempts to parse a published date. Empty input or a
// string that does not match the layout yields nil; published dates
// are best-effort and never fail an article.
func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}

	return &t
}
