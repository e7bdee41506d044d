// Package search defines the boundary types for the host search engine that
// invokes this library: result snippets in, and helpers to sanitize them.
package search

import (
	"context"
	"strings"
)

// Result is a single search hit as supplied by the host engine.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Source  string // provider name for observability
}

// Provider is a minimal interface for snippet sources. The library itself is
// normally handed results directly; the CLI uses a provider to obtain them.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}

// Clean collapses all whitespace runs to single spaces and trims the ends.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsHTTP reports whether a URL is absolute http or https.
func IsHTTP(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}
