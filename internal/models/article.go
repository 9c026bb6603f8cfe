// Package models defines data structures for parsed articles.
package models

import "time"

// Article is the canonical record produced for one article element.
// Affiliation and Entry are reserved for later pipeline stages and are
// never populated here.
type Article struct {
	Published    *time.Time `json:"published,omitempty"`
	Entry        *time.Time `json:"entry"`
	UID          string     `json:"uid"`
	Source       string     `json:"source,omitempty"`
	Publication  string     `json:"publication,omitempty"`
	Authors      string     `json:"authors,omitempty"`
	Affiliations string     `json:"affiliations,omitempty"`
	Affiliation  string     `json:"affiliation"`
	Title        string     `json:"title,omitempty"`
	Tags         string     `json:"tags"`
	Reference    string     `json:"reference"`
	Sections     []Section  `json:"sections"`
}

// Section is one named, ordered unit of article text. Nested section
// names use a backslash separator, e.g. `METHODS\SAMPLING`.
type Section struct {
	Name string `json:"name"`
	Text string `json:"text"`
}
