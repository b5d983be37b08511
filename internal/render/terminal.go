// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Terminal renders Markdown text for display in a terminal, wrapped at
// width columns, using a glamour style name ("dark" when empty). Model
// reports are usually Markdown already.
func Terminal(text string, width int, style string) (string, error) {
	if width <= 0 {
		width = 100
	}
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return out, nil
}
