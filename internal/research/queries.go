// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/zerosearch/pkg/types"
)

// ErrEmptyTheme is returned by GenerateQueries for a blank theme.
var ErrEmptyTheme = errors.New("research theme is empty")

// GenerateQueries asks the model for search queries about theme, replaces
// the stored query list with the answer and returns it. Each non-blank line
// of the answer is one query; the count is not enforced.
func (p *Pipeline) GenerateQueries(ctx context.Context, theme string) ([]string, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return nil, ErrEmptyTheme
	}

	count := p.Config.Queries.Count
	if count <= 0 {
		count = types.DefaultQueryCount
	}
	prompt, err := renderQueryPrompt(theme, count)
	if err != nil {
		return nil, fmt.Errorf("rendering query prompt: %w", err)
	}

	p.Logger.Info("generating queries", zap.String("theme", theme), zap.Int("requested", count))
	answer, err := p.Completer.Complete(ctx, prompt, p.Config.Queries.Temperature)
	if err != nil {
		return nil, fmt.Errorf("generating queries: %w", err)
	}

	queries := splitLines(answer)
	if err := p.Store.SaveQueries(ctx, queries); err != nil {
		return nil, fmt.Errorf("saving queries: %w", err)
	}
	p.Logger.Debug("queries saved", zap.Int("count", len(queries)))
	return queries, nil
}

// splitLines returns the trimmed non-blank lines of s.
func splitLines(s string) []string {
	lines := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
