// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/zerosearch/internal/extract"
	"github.com/pdiddy/zerosearch/pkg/types"
)

// NoResultsSentinel is returned by Report when the corpus is empty.
const NoResultsSentinel = "No results available for reporting"

// IsNoResults reports whether a Report result is the empty-corpus sentinel.
func IsNoResults(report string) bool {
	return report == NoResultsSentinel
}

// Report summarizes the whole corpus and replaces the stored report.
//
// When the corpus text fits in one chunk it is summarized with a single
// model call. Otherwise it is cut into fixed-size chunks, each chunk is
// summarized, and the joined summaries are summarized once more: C chunks
// cost exactly C+1 calls. The combined summaries are never re-chunked.
//
// An empty corpus yields NoResultsSentinel and leaves the stored report
// untouched.
func (p *Pipeline) Report(ctx context.Context) (string, error) {
	records, err := p.Store.LoadRecords(ctx)
	if err != nil {
		return "", fmt.Errorf("loading corpus: %w", err)
	}
	if len(records) == 0 {
		p.Logger.Info("corpus is empty, nothing to report")
		return NoResultsSentinel, nil
	}

	size := p.Config.Report.ChunkSize()
	if size <= 0 {
		size = types.ReportConfig{TokenBudget: types.DefaultTokenBudget, CharsPerToken: types.DefaultCharsPerToken}.ChunkSize()
	}

	blob := corpusText(records)
	chunks := chunkRunes(blob, size)
	p.Logger.Info("reporting",
		zap.Int("records", len(records)),
		zap.Int("chars", extract.RuneCount(blob)),
		zap.Int("chunks", len(chunks)),
		zap.Int("chunk_size", size))

	var report string
	if len(chunks) == 1 {
		report, err = p.summarize(ctx, chunks[0])
		if err != nil {
			return "", err
		}
	} else {
		summaries := make([]string, 0, len(chunks))
		for i, chunk := range chunks {
			s, err := p.summarize(ctx, chunk)
			if err != nil {
				return "", fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
			}
			summaries = append(summaries, s)
			p.Logger.Debug("chunk summarized", zap.Int("chunk", i+1), zap.Int("total", len(chunks)))
		}

		combined := strings.Join(summaries, "\n\n")
		if n := extract.RuneCount(combined); n > size {
			p.Logger.Warn("combined chunk summaries exceed chunk size",
				zap.Int("chars", n), zap.Int("chunk_size", size))
		}
		report, err = p.summarize(ctx, combined)
		if err != nil {
			return "", fmt.Errorf("final summary: %w", err)
		}
	}

	if err := p.Store.SaveReport(ctx, report); err != nil {
		return "", fmt.Errorf("saving report: %w", err)
	}
	return report, nil
}

// summarize sends text to the model with the analyst prompt.
func (p *Pipeline) summarize(ctx context.Context, text string) (string, error) {
	prompt, err := renderSummaryPrompt(text)
	if err != nil {
		return "", fmt.Errorf("rendering summary prompt: %w", err)
	}
	out, err := p.Completer.Complete(ctx, prompt, p.Config.Report.Temperature)
	if err != nil {
		return "", fmt.Errorf("summarizing: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// corpusText renders every record as "Source: url" followed by its text,
// records separated by a blank line.
func corpusText(records []types.ExtractionRecord) string {
	var sb strings.Builder
	for i, r := range records {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("Source: ")
		sb.WriteString(r.URL)
		sb.WriteByte('\n')
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// chunkRunes cuts s into consecutive pieces of at most size characters.
// The pieces concatenate back to s.
func chunkRunes(s string, size int) []string {
	if extract.RuneCount(s) <= size {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		head := extract.Truncate(s, size)
		chunks = append(chunks, head)
		s = s[len(head):]
	}
	return chunks
}
