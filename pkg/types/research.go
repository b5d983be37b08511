// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the zerosearch pipeline:
// the extraction records that make up the corpus, the candidates returned by
// search providers, and the per-stage configuration structs.
package types

// MaxTextLength bounds the Text field of an ExtractionRecord, in characters.
const MaxTextLength = 100000

// ExtractionRecord is the cleaned text of one fetched search result. Records
// are created once by the search stage and never mutated afterwards.
type ExtractionRecord struct {
	// URL is the address the page was fetched from. Never empty.
	URL string `json:"url" yaml:"url"`

	// Title is the provider-supplied title, or the page <title> when the
	// provider gave none.
	Title string `json:"title" yaml:"title"`

	// Text is whitespace-collapsed body text, at most MaxTextLength
	// characters. Empty when the page had no parseable body.
	Text string `json:"text" yaml:"text"`
}

// Candidate is a single organic result returned by a search provider.
type Candidate struct {
	// URL is the result link. Candidates without a URL are skipped.
	URL string `json:"url" yaml:"url"`

	// Title is the result title as reported by the provider (may be empty).
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}
