// Package answer wires trigger parsing, URL selection, the fetch pipeline
// and summarization into the single entry point the host search engine
// calls after a query completes.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goanswer/internal/config"
	"github.com/hyperifyio/goanswer/internal/llm"
	"github.com/hyperifyio/goanswer/internal/pipeline"
	"github.com/hyperifyio/goanswer/internal/search"
	selecter "github.com/hyperifyio/goanswer/internal/select"
	"github.com/hyperifyio/goanswer/internal/summarize"
	"github.com/hyperifyio/goanswer/internal/trigger"
)

// Answer is the artifact handed back to the host for display.
type Answer struct {
	Title   string
	Content string
}

// ErrNotConfigured reports a missing API key or model; callers should treat
// it as "feature off" rather than a fault.
var ErrNotConfigured = errors.New("answer: LLM not configured")

// Engine runs the full pipeline. Build one per process; it is safe for
// concurrent use since every stage keeps its state per call.
type Engine struct {
	cfg        config.Config
	selector   *selecter.Selector
	summarizer *summarize.Summarizer
	pipe       *pipeline.Pipeline
}

// New builds an Engine with a real OpenAI-compatible client from cfg.
func New(cfg config.Config) *Engine {
	var client llm.Client
	if cfg.LLMAPIKey != "" {
		tc := openai.DefaultConfig(cfg.LLMAPIKey)
		if cfg.LLMBaseURL != "" {
			tc.BaseURL = cfg.LLMBaseURL
		}
		client = &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(tc)}
	}
	return NewWithClient(cfg, client)
}

// NewWithClient is New with an injected model client, for tests and custom
// backends.
func NewWithClient(cfg config.Config, client llm.Client) *Engine {
	return &Engine{
		cfg: cfg,
		selector: &selecter.Selector{
			Client:              client,
			Model:               cfg.LLMModel,
			ResultsForSelection: cfg.ResultsForSelection,
			SelectK:             cfg.SelectK,
			Timeout:             cfg.SelectTimeout,
		},
		summarizer: &summarize.Summarizer{
			Client:       client,
			Model:        cfg.LLMModel,
			Timeout:      cfg.SummarizeTimeout,
			QuickTimeout: cfg.QuickTimeout,
		},
		pipe: cfg.Pipeline(),
	}
}

// Preflight verifies connectivity to the model backend when it supports
// listing models. Backends without that capability pass trivially.
func (e *Engine) Preflight(ctx context.Context) error {
	lister, ok := e.summarizer.Client.(llm.ModelLister)
	if !ok {
		return nil
	}
	if _, err := lister.ListModels(ctx); err != nil {
		return fmt.Errorf("llm preflight: %w", err)
	}
	return nil
}

// Respond inspects the raw query for trigger tokens and runs the matching
// path. A query without any trigger returns (nil, nil) so the host shows
// plain results.
func (e *Engine) Respond(ctx context.Context, rawQuery string, results []search.Result) (*Answer, error) {
	q := strings.TrimSpace(rawQuery)
	if q == "" {
		return nil, nil
	}
	switch {
	case trigger.Has(q, e.cfg.QuickTrigger):
		return e.QuickAnswer(ctx, trigger.Strip(q, e.cfg.QuickTrigger))
	case trigger.Has(q, e.cfg.Trigger):
		return e.Answer(ctx, trigger.Strip(q, e.cfg.Trigger), results)
	default:
		return nil, nil
	}
}

// Answer runs selection, the fetch pipeline and summarization for an
// already-cleaned query. Partial failure degrades: selection falls back to
// host diversity, an all-failed batch falls back to snippet-only
// summarization. Only a summarizer failure is an error.
func (e *Engine) Answer(ctx context.Context, query string, results []search.Result) (*Answer, error) {
	if e.summarizer.Client == nil {
		return nil, ErrNotConfigured
	}

	selected := e.selector.Select(ctx, query, results)
	if len(selected) > e.cfg.FetchK && e.cfg.FetchK > 0 {
		selected = selected[:e.cfg.FetchK]
	}
	log.Debug().Int("urls", len(selected)).Str("query", query).Msg("selected urls to fetch")

	var pages []pipeline.Page
	if len(selected) > 0 {
		outcomes := e.pipe.Run(ctx, selected, query)
		succeeded, failed := pipeline.Counts(outcomes)
		log.Info().Int("succeeded", succeeded).Int("failed", failed).Msg("fetch batch resolved")
		pages = pipeline.Usable(outcomes)
	}

	content, err := e.summarizer.Summarize(ctx, query, pages, results)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	return &Answer{Title: "AI summary", Content: content}, nil
}

// QuickAnswer answers from the model alone without fetching any page.
func (e *Engine) QuickAnswer(ctx context.Context, query string) (*Answer, error) {
	if e.summarizer.Client == nil {
		return nil, ErrNotConfigured
	}
	content, err := e.summarizer.QuickAnswer(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("quick answer: %w", err)
	}
	return &Answer{Title: "AI quick answer", Content: content}, nil
}
