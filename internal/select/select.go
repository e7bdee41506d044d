// Package selecter picks which search results are worth opening. An LLM
// chooses from the full snippet list under a strict JSON contract; when the
// model is unavailable or answers garbage, a deterministic host-diversity
// fallback keeps the pipeline moving.
package selecter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goanswer/internal/llm"
	"github.com/hyperifyio/goanswer/internal/search"
)

// Defaults match the envelope the host engine is tuned for.
const (
	DefaultResultsForSelection = 40
	DefaultSelectK             = 12
	DefaultTimeout             = 7 * time.Second
)

const systemMessage = "Follow instructions exactly. Do not invent facts."

// Selector chooses up to SelectK URLs from the host's result snippets.
type Selector struct {
	Client llm.Client
	Model  string
	// ResultsForSelection caps how many snippets the model sees.
	ResultsForSelection int
	// SelectK caps how many URLs come back.
	SelectK int
	// Timeout bounds the selection call.
	Timeout time.Duration
}

// selectionItem is the compact snippet shape shown to the model.
type selectionItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Select returns the chosen URLs in model order, deduplicated and filtered
// to absolute http(s). Any model failure degrades to Fallback.
func (s *Selector) Select(ctx context.Context, query string, results []search.Result) []string {
	k := s.SelectK
	if k <= 0 {
		k = DefaultSelectK
	}
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return s.Fallback(results)
	}

	items := s.buildItems(results)
	if len(items) == 0 {
		return nil
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return s.Fallback(results)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(query, k, payload)},
		},
		Temperature: 0.2,
		N:           1,
	})
	if err != nil {
		log.Warn().Err(err).Msg("url selection call failed; using fallback")
		return s.Fallback(results)
	}
	if len(resp.Choices) == 0 {
		return s.Fallback(results)
	}

	var parsed struct {
		URLs []string `json:"urls"`
	}
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Warn().Err(err).Msg("url selection returned non-JSON; using fallback")
		return s.Fallback(results)
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, k)
	for _, u := range parsed.URLs {
		u = strings.TrimSpace(u)
		if !search.IsHTTP(u) {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		if len(out) >= k {
			break
		}
	}
	if len(out) == 0 {
		return s.Fallback(results)
	}
	return out
}

func (s *Selector) buildItems(results []search.Result) []selectionItem {
	max := s.ResultsForSelection
	if max <= 0 {
		max = DefaultResultsForSelection
	}
	items := make([]selectionItem, 0, max)
	for _, r := range results {
		if !search.IsHTTP(r.URL) {
			continue
		}
		items = append(items, selectionItem{
			Title:   search.Clean(r.Title),
			Snippet: search.Clean(r.Snippet),
			URL:     r.URL,
		})
		if len(items) >= max {
			break
		}
	}
	return items
}

func buildPrompt(query string, k int, items []byte) string {
	return fmt.Sprintf(`You are choosing which search results to open to best answer the user.

User query: %s

Pick up to %d URLs that maximize:
- coverage of different subtopics
- credibility (prefer official/primary sources where relevant)
- non-duplication
- depth (likely to contain substantial info)

Return ONLY valid JSON in this exact shape:
{
  "urls": ["https://...", "..."]
}

Search results:
%s`, query, k, items)
}

// Fallback picks one result per unique hostname from the top of the list,
// preserving order, up to SelectK entries.
func (s *Selector) Fallback(results []search.Result) []string {
	k := s.SelectK
	if k <= 0 {
		k = DefaultSelectK
	}
	seenHosts := map[string]struct{}{}
	out := make([]string, 0, k)
	for _, r := range results {
		if !search.IsHTTP(r.URL) {
			continue
		}
		u, err := url.Parse(r.URL)
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.ToLower(u.Host)
		if _, ok := seenHosts[host]; ok {
			continue
		}
		seenHosts[host] = struct{}{}
		out = append(out, r.URL)
		if len(out) >= k {
			break
		}
	}
	return out
}
