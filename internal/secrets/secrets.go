// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Recognized key files: serper-api-key, brave-api-key, openrouter-api-key,
// anthropic-api-key, gemini-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/zerosearch/pkg/types"
)

// Key file names.
const (
	SerperKey     = "serper-api-key"
	BraveKey      = "brave-api-key"
	OpenRouterKey = "openrouter-api-key"
	AnthropicKey  = "anthropic-api-key"
	GeminiKey     = "gemini-api-key"
)

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads all files in dir and returns their trimmed contents by name.
// A missing directory is not an error; Load returns an empty set.
// Unreadable files are logged and skipped.
func Load(dir string, logger *zap.Logger) (Secrets, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := Secrets{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Resolve returns value when it is set, else the secret stored under key.
func (s Secrets) Resolve(value, key string) string {
	if value != "" {
		return value
	}
	return s[key]
}

// SearchKey returns the key file name for a search provider.
func SearchKey(provider string) string {
	if provider == "brave" {
		return BraveKey
	}
	return SerperKey
}

// LLMKey returns the key file name for an LLM provider.
func LLMKey(provider string) string {
	switch provider {
	case "anthropic":
		return AnthropicKey
	case "gemini":
		return GeminiKey
	default:
		return OpenRouterKey
	}
}

// Apply fills the API keys of cfg that are still empty from the secrets
// matching the configured providers.
func (s Secrets) Apply(cfg *types.PipelineConfig) {
	cfg.Search.APIKey = s.Resolve(cfg.Search.APIKey, SearchKey(cfg.Search.Provider))
	cfg.LLM.APIKey = s.Resolve(cfg.LLM.APIKey, LLMKey(cfg.LLM.Provider))
}
