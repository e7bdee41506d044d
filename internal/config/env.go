package config

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnv populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func (c *Config) ApplyEnv() {
	if c == nil {
		return
	}

	applyString(&c.Trigger, "GOANSWER_TRIGGER")
	applyString(&c.QuickTrigger, "GOANSWER_QUICK_TRIGGER")

	applyString(&c.LLMBaseURL, "LLM_BASE_URL")
	applyString(&c.LLMModel, "LLM_MODEL")
	applyString(&c.LLMAPIKey, "LLM_API_KEY")
	// OpenAI-style names accepted as a secondary spelling.
	applyString(&c.LLMBaseURL, "OPENAI_BASE_URL")
	applyString(&c.LLMAPIKey, "OPENAI_API_KEY")
	applyString(&c.LLMModel, "OPENAI_MODEL")

	applyInt(&c.ResultsForSelection, "GOANSWER_RESULTS_FOR_SELECTION")
	applyInt(&c.SelectK, "GOANSWER_SELECT_K")
	applyInt(&c.FetchK, "GOANSWER_FETCH_K")

	applyDuration(&c.FetchTimeout, "GOANSWER_FETCH_TIMEOUT")
	applyInt64(&c.FetchMaxBytes, "GOANSWER_FETCH_MAX_BYTES")
	applyInt(&c.ExtractMaxChars, "GOANSWER_EXTRACT_MAX_CHARS")

	applyDuration(&c.SelectTimeout, "GOANSWER_SELECT_TIMEOUT")
	applyDuration(&c.SummarizeTimeout, "GOANSWER_SUMMARIZE_TIMEOUT")
	applyDuration(&c.QuickTimeout, "GOANSWER_QUICK_TIMEOUT")

	applyString(&c.UserAgent, "GOANSWER_UA")

	// Support both SEARX_URL and SEARXNG_URL; prefer the former when set.
	applyString(&c.SearxURL, "SEARX_URL")
	applyString(&c.SearxURL, "SEARXNG_URL")
	applyString(&c.SearxKey, "SEARX_KEY")
	applyString(&c.SearxKey, "SEARXNG_KEY")
}

func applyString(dst *string, key string) {
	if *dst != "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyInt(dst *int, key string) {
	if *dst != 0 {
		return
	}
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

func applyInt64(dst *int64, key string) {
	if *dst != 0 {
		return
	}
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			*dst = n
		}
	}
}

// applyDuration accepts Go duration strings ("4s") and bare seconds ("4").
func applyDuration(dst *time.Duration, key string) {
	if *dst != 0 {
		return
	}
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
		return
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
		*dst = time.Duration(secs * float64(time.Second))
	}
}
