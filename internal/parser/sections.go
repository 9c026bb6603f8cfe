package parser

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"pubxml/internal/models"
	"pubxml/internal/text"
)

// Top-level section names.
const (
	titleSection    = "TITLE"
	abstractSection = "ABSTRACT"
)

// sectionPath joins a parent and child section name.
func sectionPath(parent, child string) string {
	return parent + `\` + child
}

// sections flattens the title, abstract, and body subtrees into an
// ordered list: the title entry first (full text, unsegmented), then
// the abstract's explicit sections, then body sections with their
// paragraph text split into sentences. Abstracts without explicit
// section children (raw or inline-formatted text) contribute nothing.
func (p *Parser) sections(title string, hasTitle bool, abstract, body *etree.Element) ([]models.Section, error) {
	var sections []models.Section

	if hasTitle {
		sections = append(sections, models.Section{Name: titleSection, Text: title})
	}

	if abstract != nil {
		for _, sec := range abstract.SelectElements("sec") {
			name, err := sectionTitle(sec)
			if err != nil {
				return nil, err
			}

			// Abstract sections keep their paragraph text whole.
			if t := text.Clean(paragraphText(sec)); t != "" {
				sections = append(sections, models.Section{
					Name: sectionPath(abstractSection, name),
					Text: t,
				})
			}
		}
	}

	if body != nil {
		for _, sec := range body.SelectElements("sec") {
			name, err := sectionTitle(sec)
			if err != nil {
				return nil, err
			}

			nested := sec.SelectElements("sec")
			if len(nested) == 0 {
				sections = appendSentences(sections, strings.ToUpper(name), sec)

				continue
			}

			for _, child := range nested {
				childName, err := sectionTitle(child)
				if err != nil {
					return nil, err
				}

				sections = appendSentences(
					sections,
					sectionPath(strings.ToUpper(name), strings.ToUpper(childName)),
					child,
				)
			}
		}
	}

	return sections, nil
}

// appendSentences adds one entry per sentence of the section's
// normalized paragraph text. A section with no paragraphs adds
// nothing.
func appendSentences(sections []models.Section, name string, sec *etree.Element) []models.Section {
	for _, sentence := range text.Sentences(text.Clean(paragraphText(sec))) {
		sections = append(sections, models.Section{Name: name, Text: sentence})
	}

	return sections
}

// sectionTitle reads the required title child of a section element.
func sectionTitle(sec *etree.Element) (string, error) {
	el := sec.SelectElement("title")
	if el == nil {
		return "", fmt.Errorf("%w: <%s>", ErrMissingSectionTitle, sec.Tag)
	}

	return text.Clean(flatText(el)), nil
}

// paragraphText joins the text of a section's direct paragraph
// children with single spaces.
func paragraphText(sec *etree.Element) string {
	var parts []string

	for _, p := range sec.SelectElements("p") {
		parts = append(parts, flatText(p))
	}

	return strings.Join(parts, " ")
}
