// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns fetched HTML documents into plain text records.
// Extraction never fails: malformed markup degrades to whatever text the
// parser could recover, possibly none.
package extract

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/zerosearch/pkg/types"
)

// Result is the outcome of extracting one document.
type Result struct {
	Title string
	Text  string
}

// skippedSelector matches the elements whose subtrees never contribute
// text. skipped holds the same set for fragment walks.
const skippedSelector = "script, style, noscript, footer, nav"

var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Footer:   true,
	atom.Nav:      true,
}

// blocks are elements that separate words visually. A space is emitted at
// their boundaries so adjacent paragraphs do not run together.
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Section: true, atom.Article: true,
	atom.Blockquote: true, atom.Pre: true, atom.Header: true, atom.Main: true, atom.Aside: true,
	atom.Ul: true, atom.Ol: true, atom.Dd: true, atom.Dt: true, atom.Figcaption: true,
}

// Extract parses doc and returns its title and cleaned body text.
//
// The title is titleHint when non-blank, else the document <title>, else
// empty. The text is every body text node outside script, style, noscript,
// footer and nav elements, with whitespace runs collapsed to single spaces,
// composed to Unicode NFC, truncated to types.MaxTextLength characters.
// A document without a <body> tag, such as a PDF or plain text file, has no
// text.
func Extract(doc []byte, titleHint string) Result {
	title := strings.TrimSpace(titleHint)

	d, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return Result{Title: title}
	}

	if title == "" {
		title = strings.TrimSpace(d.Find("title").First().Text())
	}

	if !hasBodyTag(doc) {
		return Result{Title: title}
	}
	body := d.Find("body").First()
	if body.Length() == 0 {
		return Result{Title: title}
	}
	body.Find(skippedSelector).Remove()

	var sb strings.Builder
	collectText(body.Get(0), &sb)

	return Result{
		Title: title,
		Text:  Truncate(norm.NFC.String(collapse(sb.String())), types.MaxTextLength),
	}
}

// hasBodyTag reports whether doc carries an explicit <body> start tag. The
// parser synthesizes a body for any input, so the tree alone cannot tell.
func hasBodyTag(doc []byte) bool {
	z := html.NewTokenizer(bytes.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Body {
				return true
			}
		}
	}
}

// FragmentText strips markup from an HTML fragment such as a search result
// title carrying <strong> highlights, and collapses its whitespace.
func FragmentText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return collapse(fragment)
	}
	var sb strings.Builder
	for _, n := range nodes {
		collectText(n, &sb)
	}
	return collapse(sb.String())
}

// Truncate returns the first max characters of s. It never splits a
// multi-byte character.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// RuneCount reports the length of s in characters.
func RuneCount(s string) int {
	return utf8.RuneCountInString(s)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
	}

	block := n.Type == html.ElementNode && blocks[n.DataAtom]
	if block {
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
	if block {
		sb.WriteByte(' ')
	}
}
