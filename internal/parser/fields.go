package parser

import (
	"strings"

	"github.com/beevik/etree"

	"pubxml/internal/text"
)

// get finds the first descendant matching path, in document order, and
// returns its flattened text passed through text.Clean. The second
// return is false when no element matches; a matched element with no
// text content yields an empty string with true.
func get(element *etree.Element, path string) (string, bool) {
	el := element.FindElement(path)
	if el == nil {
		return "", false
	}

	return text.Clean(flatText(el)), true
}

// flatText concatenates every piece of character data beneath an
// element, in document order.
func flatText(e *etree.Element) string {
	var sb strings.Builder

	walkText(e, &sb)

	return sb.String()
}

func walkText(e *etree.Element, sb *strings.Builder) {
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			walkText(t, sb)
		}
	}
}
