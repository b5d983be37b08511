// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Export formats accepted by Export.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export writes the full corpus of s to w as YAML or indented JSON.
func Export(ctx context.Context, s Store, w io.Writer, format string) error {
	records, err := s.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("loading corpus for export: %w", err)
	}

	switch format {
	case FormatYAML, "":
		data, err := yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		return fmt.Errorf("unsupported format %q: use %s or %s", format, FormatYAML, FormatJSON)
	}
}
