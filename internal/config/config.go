// Package config holds runtime configuration for the answer pipeline and its
// CLI. Sources merge with flags taking precedence over environment
// variables, which take precedence over an optional YAML file, which sits on
// the built-in defaults.
package config

import (
	"time"

	"github.com/hyperifyio/goanswer/internal/fetch"
	"github.com/hyperifyio/goanswer/internal/pipeline"
	"github.com/hyperifyio/goanswer/internal/trigger"
)

// Config holds every knob of the pipeline.
type Config struct {
	// Trigger tokens
	Trigger      string
	QuickTrigger string

	// LLM endpoint
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Selection / fetch caps
	ResultsForSelection int // snippets shown to the selection model
	SelectK             int // URLs the model may return
	FetchK              int // URLs actually fetched

	// Per-fetch bounds
	FetchTimeout  time.Duration
	FetchMaxBytes int64

	// Extraction budget per page
	ExtractMaxChars int

	// LLM call bounds
	SelectTimeout    time.Duration
	SummarizeTimeout time.Duration
	QuickTimeout     time.Duration

	UserAgent string

	// Host search engine (used by the CLI to obtain snippets)
	SearxURL string
	SearxKey string

	Verbose bool
}

// Default returns the configuration the host engine is tuned for.
func Default() Config {
	return Config{
		Trigger:             trigger.Summarize,
		QuickTrigger:        trigger.Quick,
		LLMModel:            "gpt-4o-mini",
		ResultsForSelection: 40,
		SelectK:             12,
		FetchK:              7,
		FetchTimeout:        fetch.DefaultTimeout,
		FetchMaxBytes:       fetch.DefaultMaxBodyBytes,
		ExtractMaxChars:     9000,
		SelectTimeout:       7 * time.Second,
		SummarizeTimeout:    12 * time.Second,
		QuickTimeout:        5 * time.Second,
		UserAgent:           "Mozilla/5.0 (compatible; goanswer/1.0)",
	}
}

// FillDefaults sets every still-unset field from Default(). Call it after
// flags, env and file values have been applied.
func (c *Config) FillDefaults() {
	d := Default()
	if c.Trigger == "" {
		c.Trigger = d.Trigger
	}
	if c.QuickTrigger == "" {
		c.QuickTrigger = d.QuickTrigger
	}
	if c.LLMModel == "" {
		c.LLMModel = d.LLMModel
	}
	if c.ResultsForSelection <= 0 {
		c.ResultsForSelection = d.ResultsForSelection
	}
	if c.SelectK <= 0 {
		c.SelectK = d.SelectK
	}
	if c.FetchK <= 0 {
		c.FetchK = d.FetchK
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	if c.FetchMaxBytes <= 0 {
		c.FetchMaxBytes = d.FetchMaxBytes
	}
	if c.ExtractMaxChars <= 0 {
		c.ExtractMaxChars = d.ExtractMaxChars
	}
	if c.SelectTimeout <= 0 {
		c.SelectTimeout = d.SelectTimeout
	}
	if c.SummarizeTimeout <= 0 {
		c.SummarizeTimeout = d.SummarizeTimeout
	}
	if c.QuickTimeout <= 0 {
		c.QuickTimeout = d.QuickTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
}

// FetchClient builds the bounded HTTP client this configuration describes.
func (c Config) FetchClient() *fetch.Client {
	return &fetch.Client{
		UserAgent:    c.UserAgent,
		Timeout:      c.FetchTimeout,
		MaxBodyBytes: c.FetchMaxBytes,
	}
}

// Pipeline builds the fetch pipeline this configuration describes.
func (c Config) Pipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Fetcher:    c.FetchClient(),
		CharBudget: c.ExtractMaxChars,
	}
}
