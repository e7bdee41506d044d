package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file YAML schema. Nested sections map naturally
// to flags and env variables.
type FileConfig struct {
	Trigger struct {
		Summarize string `yaml:"summarize"`
		Quick     string `yaml:"quick"`
	} `yaml:"trigger"`

	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
	} `yaml:"llm"`

	Searx struct {
		URL string `yaml:"url"`
		Key string `yaml:"key"`
	} `yaml:"searx"`

	Limits struct {
		ResultsForSelection int   `yaml:"resultsForSelection"`
		SelectK             int   `yaml:"selectK"`
		FetchK              int   `yaml:"fetchK"`
		FetchMaxBytes       int64 `yaml:"fetchMaxBytes"`
		ExtractMaxChars     int   `yaml:"extractMaxChars"`
	} `yaml:"limits"`

	Timeouts struct {
		Fetch     string `yaml:"fetch"`
		Select    string `yaml:"select"`
		Summarize string `yaml:"summarize"`
		Quick     string `yaml:"quick"`
	} `yaml:"timeouts"`

	UserAgent string `yaml:"userAgent"`
	Verbose   bool   `yaml:"verbose"`
}

// LoadFile parses a YAML configuration file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &fc, nil
}

// ApplyFile copies file values into still-unset fields of cfg, keeping the
// flags > env > file precedence.
func (c *Config) ApplyFile(fc *FileConfig) {
	if c == nil || fc == nil {
		return
	}
	setString(&c.Trigger, fc.Trigger.Summarize)
	setString(&c.QuickTrigger, fc.Trigger.Quick)
	setString(&c.LLMBaseURL, fc.LLM.BaseURL)
	setString(&c.LLMModel, fc.LLM.Model)
	setString(&c.LLMAPIKey, fc.LLM.APIKey)
	setString(&c.SearxURL, fc.Searx.URL)
	setString(&c.SearxKey, fc.Searx.Key)
	setString(&c.UserAgent, fc.UserAgent)

	if c.ResultsForSelection <= 0 && fc.Limits.ResultsForSelection > 0 {
		c.ResultsForSelection = fc.Limits.ResultsForSelection
	}
	if c.SelectK <= 0 && fc.Limits.SelectK > 0 {
		c.SelectK = fc.Limits.SelectK
	}
	if c.FetchK <= 0 && fc.Limits.FetchK > 0 {
		c.FetchK = fc.Limits.FetchK
	}
	if c.FetchMaxBytes <= 0 && fc.Limits.FetchMaxBytes > 0 {
		c.FetchMaxBytes = fc.Limits.FetchMaxBytes
	}
	if c.ExtractMaxChars <= 0 && fc.Limits.ExtractMaxChars > 0 {
		c.ExtractMaxChars = fc.Limits.ExtractMaxChars
	}

	setDuration(&c.FetchTimeout, fc.Timeouts.Fetch)
	setDuration(&c.SelectTimeout, fc.Timeouts.Select)
	setDuration(&c.SummarizeTimeout, fc.Timeouts.Summarize)
	setDuration(&c.QuickTimeout, fc.Timeouts.Quick)

	if fc.Verbose {
		c.Verbose = true
	}
}

func setString(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) {
	if *dst != 0 || v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
	}
}
