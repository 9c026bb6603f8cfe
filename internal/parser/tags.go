package parser

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/lo"

	"pubxml/internal/text"
)

// MarkerTag is the fixed source-system tag. It is always the first
// tag on every record, even when the document supplies no category
// terms.
const MarkerTag = "PUBXML"

// tags collects every subject term under the article's category
// containers and joins them behind the marker tag.
func tags(entry *etree.Element) string {
	terms := []string{MarkerTag}

	for _, categories := range entry.FindElements(".//article-categories") {
		subjects := categories.FindElements(".//subject")
		terms = append(terms, lo.Map(subjects, func(s *etree.Element, _ int) string {
			return text.Clean(text.StripMarkup(flatText(s)))
		})...)
	}

	return strings.Join(terms, "; ")
}
