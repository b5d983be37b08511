// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"text/template"
)

var queryPromptTmpl = template.Must(template.New("queries").Parse(
	`Compile {{.Count}} prompts for comprehensive web research of this theme: {{.Theme}}. Answer ONLY with the queries.`))

var summaryPromptTmpl = template.Must(template.New("summary").Parse(
	`You are a web researcher AI. Analyze the following text and create a detailed report capturing all important themes, patterns, and data points. Include specific facts, statistics, and insights. Organize findings logically:

{{.Text}}`))

func renderQueryPrompt(theme string, count int) (string, error) {
	var buf bytes.Buffer
	err := queryPromptTmpl.Execute(&buf, struct {
		Theme string
		Count int
	}{theme, count})
	return buf.String(), err
}

func renderSummaryPrompt(text string) (string, error) {
	var buf bytes.Buffer
	err := summaryPromptTmpl.Execute(&buf, struct{ Text string }{text})
	return buf.String(), err
}
