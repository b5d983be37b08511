// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes research reports as Markdown documents.
package render

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/pdiddy/zerosearch/pkg/types"
)

// Document is everything a rendered report shows.
type Document struct {
	Report    string
	Queries   []string
	Records   []types.ExtractionRecord
	Generated time.Time
	// Empty marks a report that is the no-results sentinel.
	Empty bool
}

// Markdown writes doc to w: an overview table, the report body, the query
// list and a table of sources.
func Markdown(w io.Writer, doc Document) error {
	md := markdown.NewMarkdown(w)

	md.H1("Research Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", doc.Generated.Format("2006-01-02 15:04:05 MST")},
			{"Queries", strconv.Itoa(len(doc.Queries))},
			{"Sources", strconv.Itoa(len(doc.Records))},
		},
	})
	md.PlainText("")

	md.H2("Summary")
	md.PlainText("")
	if doc.Empty {
		md.Note(doc.Report)
	} else {
		md.PlainText(doc.Report)
	}
	md.PlainText("")

	if len(doc.Queries) > 0 {
		md.H2("Queries")
		md.PlainText("")
		md.BulletList(doc.Queries...)
		md.PlainText("")
	}

	if len(doc.Records) > 0 {
		md.H2("Sources")
		md.PlainText("")
		rows := make([][]string, 0, len(doc.Records))
		for i, r := range doc.Records {
			title := r.Title
			if title == "" {
				title = "(untitled)"
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), cell(title), cell(r.URL), strconv.Itoa(len([]rune(r.Text)))})
		}
		md.Table(markdown.TableSet{
			Header: []string{"#", "Title", "URL", "Characters"},
			Rows:   rows,
		})
	}

	return md.Build()
}

// cell makes s safe inside a table cell.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
