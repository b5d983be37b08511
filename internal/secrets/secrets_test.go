// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/zerosearch/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   Secrets
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "serper-api-key", "  sp_abc123  \n")
				writeFile(t, dir, "brave-api-key", "bsa_xyz789")
				writeFile(t, dir, "openrouter-api-key", "sk-or-v1\n")
				return dir
			},
			want: Secrets{
				"serper-api-key":     "sp_abc123",
				"brave-api-key":      "bsa_xyz789",
				"openrouter-api-key": "sk-or-v1",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Secrets{
				"anthropic-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "serper-api-key", "sp_real")
				return dir
			},
			want: Secrets{
				"serper-api-key": "sp_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{
				"anthropic-api-key": "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: Secrets{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, zaptest.NewLogger(t))
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestResolve(t *testing.T) {
	s := Secrets{SerperKey: "from-file"}
	assert.Equal(t, "from-flag", s.Resolve("from-flag", SerperKey))
	assert.Equal(t, "from-file", s.Resolve("", SerperKey))
	assert.Equal(t, "", s.Resolve("", BraveKey))
}

func TestApply(t *testing.T) {
	s := Secrets{
		SerperKey:     "serper",
		BraveKey:      "brave",
		OpenRouterKey: "openrouter",
		AnthropicKey:  "anthropic",
		GeminiKey:     "gemini",
	}
	tests := []struct {
		name       string
		search     string
		llm        string
		preset     string
		wantSearch string
		wantLLM    string
	}{
		{"defaults", "", "", "", "serper", "openrouter"},
		{"brave and anthropic", "brave", "anthropic", "", "brave", "anthropic"},
		{"gemini", "serper", "gemini", "", "serper", "gemini"},
		{"configured key wins", "serper", "openrouter", "explicit", "explicit", "openrouter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.PipelineConfig{}
			cfg.Search.Provider = tt.search
			cfg.Search.APIKey = tt.preset
			cfg.LLM.Provider = tt.llm
			s.Apply(&cfg)
			assert.Equal(t, tt.wantSearch, cfg.Search.APIKey)
			assert.Equal(t, tt.wantLLM, cfg.LLM.APIKey)
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
