package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"pubxml/internal/models"
)

func parseAll(t *testing.T, doc, source string) ([]*models.Article, []error) {
	t.Helper()

	p := NewParser()

	seq, err := p.Parse(strings.NewReader(doc), source)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var (
		articles []*models.Article
		errs     []error
	)

	for article, err := range seq {
		if err != nil {
			errs = append(errs, err)

			continue
		}

		articles = append(articles, article)
	}

	return articles, errs
}

func mustElement(t *testing.T, doc, path string) *etree.Element {
	t.Helper()

	d := etree.NewDocument()
	if err := d.ReadFromString(doc); err != nil {
		t.Fatalf("failed to parse test XML: %v", err)
	}

	el := d.FindElement(path)
	if el == nil {
		t.Fatalf("no element at %s", path)
	}

	return el
}

const flatBodyDoc = `<?xml version="1.0"?>
<articles>
  <article>
    <front>
      <article-id>123</article-id>
      <title>Study of X</title>
    </front>
    <body>
      <sec>
        <title>Results</title>
        <p>Sentence one. Sentence two.</p>
        <p>Sentence three.</p>
      </sec>
    </body>
  </article>
</articles>`

func TestParse_FlatBodySection(t *testing.T) {
	articles, errs := parseAll(t, flatBodyDoc, "unit-test")

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}

	article := articles[0]

	if article.UID != "40bd001563085fc35165329ea1ff5c5ecbdbbeef" {
		t.Errorf("UID = %s, want sha1 of \"123\"", article.UID)
	}

	if article.Reference != "123" {
		t.Errorf("Reference = %q, want 123", article.Reference)
	}

	if article.Title != "Study of X" {
		t.Errorf("Title = %q, want Study of X", article.Title)
	}

	if article.Source != "unit-test" {
		t.Errorf("Source = %q, want unit-test", article.Source)
	}

	if article.Published != nil {
		t.Errorf("Published = %v, want nil", article.Published)
	}

	if article.Affiliation != "" || article.Entry != nil {
		t.Error("reserved fields must stay empty")
	}

	want := []models.Section{
		{Name: "TITLE", Text: "Study of X"},
		{Name: "RESULTS", Text: "Sentence one."},
		{Name: "RESULTS", Text: "Sentence two."},
		{Name: "RESULTS", Text: "Sentence three."},
	}

	if len(article.Sections) != len(want) {
		t.Fatalf("got %d sections, want %d: %+v", len(article.Sections), len(want), article.Sections)
	}

	for i, sec := range want {
		if article.Sections[i] != sec {
			t.Errorf("section[%d] = %+v, want %+v", i, article.Sections[i], sec)
		}
	}
}

func TestParse_FullMetadata(t *testing.T) {
	doc := `<?xml version="1.0"?>
<article>
  <front>
    <journal-title>Journal of Testing</journal-title>
    <article-id>ref-42</article-id>
    <title>A Title</title>
    <pub-date>14 Jul 2020</pub-date>
    <contrib-group>
      <contrib><name><surname>Smith</surname><given-names>Jane</given-names></name></contrib>
    </contrib-group>
    <aff><label>1</label>Department of Biology, State University</aff>
    <article-categories>
      <subject>Biology</subject>
    </article-categories>
  </front>
</article>`

	articles, errs := parseAll(t, doc, "meta")
	if len(errs) != 0 || len(articles) != 1 {
		t.Fatalf("articles=%d errs=%v", len(articles), errs)
	}

	article := articles[0]

	if article.Publication != "Journal of Testing" {
		t.Errorf("Publication = %q", article.Publication)
	}

	if article.Published == nil {
		t.Fatal("Published = nil, want 14 Jul 2020")
	}

	if y, m, d := article.Published.Date(); y != 2020 || m != 7 || d != 14 {
		t.Errorf("Published = %v, want 2020-07-14", article.Published)
	}

	if article.Authors != "Smith, Jane" {
		t.Errorf("Authors = %q", article.Authors)
	}

	if article.Affiliations != "Department of Biology, State University" {
		t.Errorf("Affiliations = %q", article.Affiliations)
	}

	if article.Tags != "PUBXML; Biology" {
		t.Errorf("Tags = %q", article.Tags)
	}
}

func TestParse_ZeroArticles(t *testing.T) {
	articles, errs := parseAll(t, `<?xml version="1.0"?><articles></articles>`, "")

	if len(articles) != 0 || len(errs) != 0 {
		t.Errorf("expected empty sequence, got articles=%d errs=%v", len(articles), errs)
	}
}

func TestParse_MalformedContributorFailsArticleOnly(t *testing.T) {
	doc := `<?xml version="1.0"?>
<articles>
  <article>
    <front>
      <article-id>123</article-id>
      <title>Broken Byline</title>
      <contrib-group>
        <contrib><name><surname>Doe</surname><given-names>John</given-names></name></contrib>
        <contrib></contrib>
      </contrib-group>
    </front>
  </article>
  <article>
    <front>
      <article-id>456</article-id>
      <title>Valid Sibling</title>
    </front>
  </article>
</articles>`

	articles, errs := parseAll(t, doc, "batch-9")

	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}

	if !errors.Is(errs[0], ErrMalformedContributor) {
		t.Errorf("error = %v, want ErrMalformedContributor", errs[0])
	}

	if !strings.Contains(errs[0].Error(), "batch-9") || !strings.Contains(errs[0].Error(), "123") {
		t.Errorf("error should carry source and reference: %v", errs[0])
	}

	if len(articles) != 1 || articles[0].Reference != "456" {
		t.Fatalf("sibling article not produced: %+v", articles)
	}
}

func TestParse_MissingReferenceSkipsArticleOnly(t *testing.T) {
	doc := `<?xml version="1.0"?>
<articles>
  <article>
    <front><title>No Identifier Here</title></front>
  </article>
  <article>
    <front>
      <article-id>456</article-id>
      <title>Valid Sibling</title>
    </front>
  </article>
</articles>`

	articles, errs := parseAll(t, doc, "batch-7")

	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}

	if !errors.Is(errs[0], ErrMissingReference) {
		t.Errorf("error = %v, want ErrMissingReference", errs[0])
	}

	if !strings.Contains(errs[0].Error(), "batch-7") {
		t.Errorf("error should carry the source label: %v", errs[0])
	}

	if len(articles) != 1 || articles[0].Reference != "456" {
		t.Fatalf("sibling article not produced: %+v", articles)
	}
}

func TestParse_InvalidXML(t *testing.T) {
	p := NewParser()

	if _, err := p.Parse(strings.NewReader("<unclosed"), ""); err == nil {
		t.Error("Parse expected error for invalid XML")
	}
}

func TestParse_SingleUseSequence(t *testing.T) {
	p := NewParser()

	seq, err := p.Parse(strings.NewReader(flatBodyDoc), "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	count := 0
	for range seq {
		count++

		break // early stop must be honored
	}

	if count != 1 {
		t.Errorf("expected iteration to stop after 1, got %d", count)
	}
}

func TestGet(t *testing.T) {
	entry := mustElement(t, `<article><front><title>  A
	spaced   title </title><empty></empty></front></article>`, "//article")

	got, ok := get(entry, ".//title")
	if !ok || got != "A spaced title" {
		t.Errorf("get title = (%q, %v)", got, ok)
	}

	got, ok = get(entry, ".//empty")
	if !ok || got != "" {
		t.Errorf("get empty element = (%q, %v), want (\"\", true)", got, ok)
	}

	if _, ok = get(entry, ".//missing"); ok {
		t.Error("get missing element should report absence")
	}
}

func TestFlatText_NestedMarkup(t *testing.T) {
	el := mustElement(t, `<p>before <b>bold</b> after</p>`, "//p")

	if got := flatText(el); got != "before bold after" {
		t.Errorf("flatText = %q", got)
	}
}
