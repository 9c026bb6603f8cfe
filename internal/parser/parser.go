// Package parser transforms scholarly-article XML documents into
// canonical article records.
package parser

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/beevik/etree"

	"pubxml/internal/models"
	"pubxml/pkg/digest"
)

// Parser errors. A missing required field aborts the affected article
// but never iteration of its siblings.
var (
	ErrMissingReference     = errors.New("article is missing its identifier")
	ErrMissingSectionTitle  = errors.New("section is missing its title")
	ErrMalformedContributor = errors.New("contributor element is malformed")
	ErrMalformedAffiliation = errors.New("affiliation element is malformed")
)

// Metadata path expressions, resolved against each article element.
const (
	refPath     = ".//article-id"
	titlePath   = ".//title"
	datePath    = ".//pub-date"
	journalPath = ".//journal-title"
)

// Parser converts article elements into models.Article records.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads one XML document from r and returns a lazy sequence of
// article records, one per article element at any depth, in document
// order. The sequence is single-use. A failed article yields a
// non-nil error and iteration continues with its siblings; a document
// with no article elements yields an empty sequence. The source label
// is attached verbatim to every record.
func (p *Parser) Parse(r io.Reader, source string) (iter.Seq2[*models.Article, error], error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	entries := doc.FindElements("//article")

	return func(yield func(*models.Article, error) bool) {
		for _, entry := range entries {
			article, err := p.article(entry, source)
			if !yield(article, err) {
				return
			}
		}
	}, nil
}

// article assembles one record from an article element.
func (p *Parser) article(entry *etree.Element, source string) (*models.Article, error) {
	reference, ok := get(entry, refPath)
	if !ok {
		return nil, fmt.Errorf("%w: source=%q", ErrMissingReference, source)
	}

	title, hasTitle := get(entry, titlePath)
	rawDate, _ := get(entry, datePath)
	publication, _ := get(entry, journalPath)

	authors, affiliations, err := contributors(
		entry.FindElements(".//contrib-group"),
		entry.FindElements(".//aff"),
	)
	if err != nil {
		return nil, fmt.Errorf("source=%q reference=%q: %w", source, reference, err)
	}

	sections, err := p.sections(
		title, hasTitle,
		entry.FindElement(".//abstract"),
		entry.FindElement(".//body"),
	)
	if err != nil {
		return nil, fmt.Errorf("source=%q reference=%q: %w", source, reference, err)
	}

	return &models.Article{
		UID:          digest.UID(reference),
		Source:       source,
		Published:    parseDate(rawDate),
		Publication:  publication,
		Authors:      authors,
		Affiliations: affiliations,
		Title:        title,
		Tags:         tags(entry),
		Reference:    reference,
		Sections:     sections,
	}, nil
}
