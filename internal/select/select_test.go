package selecter

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goanswer/internal/search"
)

// scriptedClient returns a fixed completion or error and captures the last
// request for prompt assertions.
type scriptedClient struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (c *scriptedClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.lastReq = req
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: c.content}},
		},
	}, nil
}

func sampleResults() []search.Result {
	return []search.Result{
		{Title: "Go docs", Snippet: "The Go programming language", URL: "https://go.dev/doc/"},
		{Title: "Go blog", Snippet: "News from the Go team", URL: "https://go.dev/blog/"},
		{Title: "Wiki", Snippet: "Go on Wikipedia", URL: "https://en.wikipedia.org/wiki/Go"},
		{Title: "Tutorial", Snippet: "Learn Go fast", URL: "https://example.com/go-tutorial"},
	}
}

func TestSelect_ParsesModelChoice(t *testing.T) {
	c := &scriptedClient{content: `{"urls": ["https://go.dev/doc/", "https://example.com/go-tutorial"]}`}
	s := &Selector{Client: c, Model: "test-model"}

	got := s.Select(context.Background(), "golang", sampleResults())
	want := []string{"https://go.dev/doc/", "https://example.com/go-tutorial"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	prompt := c.lastReq.Messages[1].Content
	if !strings.Contains(prompt, "golang") {
		t.Error("prompt missing the query")
	}
	if !strings.Contains(prompt, "https://go.dev/doc/") {
		t.Error("prompt missing the snippets")
	}
	if c.lastReq.Messages[0].Content != systemMessage {
		t.Errorf("system message = %q", c.lastReq.Messages[0].Content)
	}
}

func TestSelect_FiltersAndDedupes(t *testing.T) {
	c := &scriptedClient{content: `{"urls": [
		"https://go.dev/doc/",
		"https://go.dev/doc/",
		"ftp://bad.example/file",
		"not a url",
		"https://en.wikipedia.org/wiki/Go"
	]}`}
	s := &Selector{Client: c, Model: "test-model"}

	got := s.Select(context.Background(), "golang", sampleResults())
	if len(got) != 2 || got[0] != "https://go.dev/doc/" || got[1] != "https://en.wikipedia.org/wiki/Go" {
		t.Fatalf("got %v", got)
	}
}

func TestSelect_CapsAtK(t *testing.T) {
	c := &scriptedClient{content: `{"urls": ["https://a.example/", "https://b.example/", "https://c.example/"]}`}
	s := &Selector{Client: c, Model: "test-model", SelectK: 2}

	if got := s.Select(context.Background(), "q", sampleResults()); len(got) != 2 {
		t.Fatalf("got %d urls, want 2", len(got))
	}
}

func TestSelect_FallbackOnError(t *testing.T) {
	c := &scriptedClient{err: errors.New("model unavailable")}
	s := &Selector{Client: c, Model: "test-model"}

	got := s.Select(context.Background(), "golang", sampleResults())
	if len(got) == 0 {
		t.Fatal("expected fallback urls")
	}
	if got[0] != "https://go.dev/doc/" {
		t.Fatalf("fallback should start from the top result, got %v", got)
	}
}

func TestSelect_FallbackOnGarbage(t *testing.T) {
	c := &scriptedClient{content: "Sure! Here are some great links for you."}
	s := &Selector{Client: c, Model: "test-model"}

	if got := s.Select(context.Background(), "golang", sampleResults()); len(got) == 0 {
		t.Fatal("expected fallback urls on non-JSON reply")
	}
}

func TestSelect_NoClientUsesFallback(t *testing.T) {
	s := &Selector{}
	got := s.Select(context.Background(), "golang", sampleResults())
	if len(got) == 0 {
		t.Fatal("expected fallback urls without a client")
	}
}

func TestSelect_EmptyResults(t *testing.T) {
	c := &scriptedClient{content: `{"urls": ["https://a.example/"]}`}
	s := &Selector{Client: c, Model: "test-model"}
	if got := s.Select(context.Background(), "q", nil); len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}
}

func TestFallback_HostDiversity(t *testing.T) {
	s := &Selector{SelectK: 5}
	results := []search.Result{
		{URL: "https://go.dev/doc/"},
		{URL: "https://go.dev/blog/"},
		{URL: "https://example.com/a"},
		{URL: "gopher://old.example/"},
		{URL: "https://example.com/b"},
		{URL: "https://third.example/x"},
	}
	got := s.Fallback(results)
	want := []string{"https://go.dev/doc/", "https://example.com/a", "https://third.example/x"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
