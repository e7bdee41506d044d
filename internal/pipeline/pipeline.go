// Package pipeline fans a batch of candidate URLs out to concurrent
// fetch-and-extract tasks and collects one outcome per URL. Outcomes are
// independent: a timeout or bad status on one URL never disturbs its
// siblings, and the batch always resolves every entry.
package pipeline

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/goanswer/internal/extract"
)

// ErrNoUsableContent marks pages that fetched fine but yielded no text worth
// summarizing. It is a per-URL failure reason, not a batch error.
var ErrNoUsableContent = errors.New("no usable content")

// Fetcher is the single-URL retrieval capability the pipeline needs.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Outcome is the per-URL result: extracted text on success, the reason on
// failure, never both.
type Outcome struct {
	URL  string
	Text string
	Err  error
}

// Success reports whether the outcome carries usable text.
func (o Outcome) Success() bool { return o.Err == nil }

// Page is one usable (URL, extracted text) pair handed onward.
type Page struct {
	URL  string
	Text string
}

// Pipeline runs fetch plus extraction for each URL of a batch. The batch is
// expected to be deduplicated and capped by the selection step.
type Pipeline struct {
	Fetcher Fetcher
	// CharBudget caps each page's extracted text.
	CharBudget int
}

// Run resolves every URL concurrently and returns outcomes in input order.
// Cancelling ctx cancels all in-flight fetches promptly; their outcomes then
// carry the context error. Parsing and scoring run inline in the goroutine
// that owns the fetch, so no cross-task state is shared.
func (p *Pipeline) Run(ctx context.Context, urls []string, query string) []Outcome {
	outcomes := make([]Outcome, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			outcomes[i] = p.resolve(ctx, u, query)
			return nil
		})
	}
	// Tasks never return errors; failures live inside each outcome.
	_ = g.Wait()
	return outcomes
}

func (p *Pipeline) resolve(ctx context.Context, url, query string) Outcome {
	body, err := p.Fetcher.Get(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("fetch failed; skipping page")
		return Outcome{URL: url, Err: err}
	}
	text, ok, err := extract.Extract(body, query, p.CharBudget)
	if err != nil {
		// Only contract violations (bad budget) reach here.
		return Outcome{URL: url, Err: err}
	}
	if !ok {
		log.Debug().Str("url", url).Msg("page yielded no usable content")
		return Outcome{URL: url, Err: ErrNoUsableContent}
	}
	return Outcome{URL: url, Text: text}
}

// Usable filters the successful outcomes into (URL, text) pairs, preserving
// input order.
func Usable(outcomes []Outcome) []Page {
	pages := make([]Page, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Success() {
			pages = append(pages, Page{URL: o.URL, Text: o.Text})
		}
	}
	return pages
}

// Counts reports how many outcomes succeeded and failed, for callers that
// degrade when too few pages survive.
func Counts(outcomes []Outcome) (succeeded, failed int) {
	for _, o := range outcomes {
		if o.Success() {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
