package parser

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/lo"

	"pubxml/internal/text"
)

// contributors extracts author display names and institutional
// affiliations. Authors are rendered "Last, First" from the name parts
// of each contrib entry; both lists preserve document order and join
// with "; ".
func contributors(groups, affiliations []*etree.Element) (string, string, error) {
	var authors []string

	for _, group := range groups {
		for _, contrib := range group.FindElements(".//contrib") {
			nameEl := contrib.SelectElement("name")
			if nameEl == nil {
				children := contrib.ChildElements()
				if len(children) == 0 {
					return "", "", fmt.Errorf("%w: no name parts", ErrMalformedContributor)
				}

				nameEl = children[0]
			}

			parts := lo.Map(nameEl.ChildElements(), func(part *etree.Element, _ int) string {
				return text.Clean(text.StripMarkup(flatText(part)))
			})
			authors = append(authors, strings.Join(parts, ", "))
		}
	}

	var affs []string

	for _, aff := range affiliations {
		content, err := affiliationText(aff)
		if err != nil {
			return "", "", err
		}

		affs = append(affs, content)
	}

	return strings.Join(authors, "; "), strings.Join(affs, "; "), nil
}

// affiliationText returns the content region of an affiliation
// element: everything after its label child. Affiliation structure is
// assumed uniform within one source, so a missing label or empty
// content region is an error rather than a silent skip.
func affiliationText(aff *etree.Element) (string, error) {
	label := -1

	for i, tok := range aff.Child {
		if _, ok := tok.(*etree.Element); ok {
			label = i

			break
		}
	}

	if label < 0 {
		return "", fmt.Errorf("%w: no label child", ErrMalformedAffiliation)
	}

	var sb strings.Builder

	for _, tok := range aff.Child[label+1:] {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteString(flatText(t))
		}
	}

	content := text.Clean(text.StripMarkup(sb.String()))
	if content == "" {
		return "", fmt.Errorf("%w: empty content region", ErrMalformedAffiliation)
	}

	return content, nil
}
