// Package summarize turns extracted page texts (or, when every fetch
// failed, the raw snippets) into the final answer prose via an
// OpenAI-compatible chat model.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goanswer/internal/llm"
	"github.com/hyperifyio/goanswer/internal/pipeline"
	"github.com/hyperifyio/goanswer/internal/search"
)

const (
	// DefaultTimeout bounds the summarization call.
	DefaultTimeout = 12 * time.Second
	// DefaultQuickTimeout bounds the lighter quick-answer call.
	DefaultQuickTimeout = 5 * time.Second

	// snippetFallbackTop is how many snippets feed the degraded prompt.
	snippetFallbackTop = 10

	systemMessage      = "Follow instructions exactly. Do not invent facts."
	quickSystemMessage = "You are a helpful assistant that provides accurate, concise answers to questions."
)

// ErrNoChoices reports an empty completion from the model.
var ErrNoChoices = errors.New("summarize: model returned no choices")

// Summarizer produces the final answer content.
type Summarizer struct {
	Client llm.Client
	Model  string
	// Timeout bounds each full-summary call; QuickTimeout the quick path.
	Timeout      time.Duration
	QuickTimeout time.Duration
}

// Summarize builds the sources prompt from the extracted pages and asks the
// model for the structured summary. When pages is empty it degrades to a
// snippet-only prompt built from fallback results; an empty answer is an
// error because there is nothing left to degrade to.
func (s *Summarizer) Summarize(ctx context.Context, query string, pages []pipeline.Page, fallback []search.Result) (string, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return "", errors.New("summarizer not configured")
	}
	sources := buildSources(pages, fallback)

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
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(query, sources)},
		},
		Temperature: 0.2,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("summarize call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// QuickAnswer answers from the model alone, without opening any page. Meant
// for definitions and simple facts where fetching would only add latency.
func (s *Summarizer) QuickAnswer(ctx context.Context, query string) (string, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return "", errors.New("summarizer not configured")
	}
	timeout := s.QuickTimeout
	if timeout <= 0 {
		timeout = DefaultQuickTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: quickSystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: buildQuickPrompt(query)},
		},
		Temperature: 0.3,
		MaxTokens:   500,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("quick answer call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildSources renders the SOURCES block: extracted pages when available,
// otherwise the top snippets so a blocked fetch still yields an answer.
func buildSources(pages []pipeline.Page, fallback []search.Result) string {
	if len(pages) > 0 {
		parts := make([]string, 0, len(pages))
		for _, p := range pages {
			parts = append(parts, fmt.Sprintf("URL: %s\nTEXT: %s", p.URL, p.Text))
		}
		return strings.Join(parts, "\n\n---\n\n")
	}
	top := fallback
	if len(top) > snippetFallbackTop {
		top = top[:snippetFallbackTop]
	}
	lines := make([]string, 0, len(top))
	for _, r := range top {
		lines = append(lines, fmt.Sprintf("- %s\n  %s\n  %s", r.Title, r.Snippet, r.URL))
	}
	return strings.Join(lines, "\n")
}

func buildPrompt(query, sources string) string {
	return fmt.Sprintf(`User query: %s

Output exactly:

SUMMARY:
- (3–7 bullets, factual, cautious)

SUGGESTED LINKS:
1. <url> — <short why>
2. ...

FOLLOW-UP QUERIES:
- (3–7 short searches)

Rules:
- Only cite URLs that appear in SOURCES.
- If evidence is weak or conflicting, say so.
- Do not make up details.

SOURCES:
%s`, query, sources)
}

func buildQuickPrompt(query string) string {
	return fmt.Sprintf(`Provide a concise, accurate answer to the following question.

Question: %s

Requirements:
- Keep the answer under 3 paragraphs
- Be factual and precise
- If you're uncertain, say so
- Include key points in bullet format if appropriate
- Do not make up information

Answer:`, query)
}
