package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the search provider.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects the search backend: serper or brave.
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// APIKey authenticates against the selected provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxResults is the number of candidates requested per query (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// MaxRetries bounds retries on HTTP 429 from the provider API (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// FetchConfig holds settings for page fetching during the search stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Fetcher selects the page fetcher: http or browser.
	Fetcher string `json:"fetcher" yaml:"fetcher" mapstructure:"fetcher"`

	// Delay is the constant pause between consecutive page fetches of one
	// search call, also used as the minimum interval per host (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`

	// MaxBytes caps the size of a fetched document (default 10 MiB).
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`

	// BrowserURL is the DevTools websocket of a running Chrome. When empty
	// the browser fetcher launches a local headless instance.
	BrowserURL string `json:"browser_url,omitempty" yaml:"browser_url,omitempty" mapstructure:"browser_url"`
}

// LLMConfig holds settings for the language-model completion service.
type LLMConfig struct {
	// Provider selects the backend: openrouter, anthropic or gemini.
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the provider-specific model identifier. Each provider has a
	// default when empty.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Timeout bounds a single completion call (default 5m).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens bounds the completion length where the provider requires it.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// QueryConfig holds settings for the query generation stage.
type QueryConfig struct {
	// Count is the number of queries requested from the model (default 10).
	Count int `json:"count" yaml:"count" mapstructure:"count"`

	// Temperature is the sampling temperature for generation (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
}

// ReportConfig holds settings for the chunked reporting stage.
type ReportConfig struct {
	// TokenBudget is the approximate model input budget per call (default 100000).
	TokenBudget int `json:"token_budget" yaml:"token_budget" mapstructure:"token_budget"`

	// CharsPerToken converts the token budget into a chunk size in
	// characters (default 2.5).
	CharsPerToken float64 `json:"chars_per_token" yaml:"chars_per_token" mapstructure:"chars_per_token"`

	// Temperature is the sampling temperature for summaries (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
}

// ChunkSize returns the chunk size in characters derived from the budget.
func (c ReportConfig) ChunkSize() int {
	return int(float64(c.TokenBudget) * c.CharsPerToken)
}

// StoreConfig holds settings for the persisted session state.
type StoreConfig struct {
	// Backend selects the persistence backend: file or sqlite.
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Dir is the state directory holding queries, corpus and report.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Search  SearchConfig `json:"search" yaml:"search" mapstructure:"search"`
	Fetch   FetchConfig  `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	LLM     LLMConfig    `json:"llm" yaml:"llm" mapstructure:"llm"`
	Queries QueryConfig  `json:"queries" yaml:"queries" mapstructure:"queries"`
	Report  ReportConfig `json:"report" yaml:"report" mapstructure:"report"`
	Store   StoreConfig  `json:"store" yaml:"store" mapstructure:"store"`
}

// Default values for the pipeline stages.
const (
	DefaultMaxResults    = 10
	DefaultFetchTimeout  = 10 * time.Second
	DefaultFetchDelay    = 1 * time.Second
	DefaultUserAgent     = "Mozilla/5.0"
	DefaultMaxBytes      = 10 << 20
	DefaultQueryCount    = 10
	DefaultTokenBudget   = 100000
	DefaultCharsPerToken = 2.5
)

// DefaultPipelineConfig returns the configuration used when no config file,
// flag, or environment variable overrides a value.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{Timeout: 30 * time.Second, UserAgent: "zerosearch/0.1"},
			Provider:   "serper",
			MaxResults: DefaultMaxResults,
		},
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{Timeout: DefaultFetchTimeout, UserAgent: DefaultUserAgent},
			Fetcher:    "http",
			Delay:      DefaultFetchDelay,
			MaxBytes:   DefaultMaxBytes,
		},
		LLM: LLMConfig{
			Provider:  "openrouter",
			Timeout:   5 * time.Minute,
			MaxTokens: 8192,
		},
		Queries: QueryConfig{
			Count:       DefaultQueryCount,
			Temperature: 0.7,
		},
		Report: ReportConfig{
			TokenBudget:   DefaultTokenBudget,
			CharsPerToken: DefaultCharsPerToken,
			Temperature:   0.3,
		},
		Store: StoreConfig{
			Backend: "file",
			Dir:     "research",
		},
	}
}
