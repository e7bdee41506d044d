// Package annotate enriches result snippets with lightweight metadata tags
// (domain, content type, reading time) and drops duplicate entries. It needs
// no network or model calls.
package annotate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyperifyio/goanswer/internal/search"
)

const (
	// wordsPerMinute drives the reading time estimate.
	wordsPerMinute = 200
	// minWordsForReadingTime skips the estimate on stub snippets.
	minWordsForReadingTime = 50
	// minTitleDedupChars guards against collapsing short generic titles.
	minTitleDedupChars = 10
)

var docPatterns = []*regexp.Regexp{
	regexp.MustCompile(`docs?\.`),
	regexp.MustCompile(`/documentation`),
	regexp.MustCompile(`/manual`),
	regexp.MustCompile(`/guide`),
	regexp.MustCompile(`readthedocs`),
	regexp.MustCompile(`/api`),
	regexp.MustCompile(`/reference`),
}

var newsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/news/`),
	regexp.MustCompile(`/article/`),
	regexp.MustCompile(`\.com/\d{4}/\d{2}/`), // date-based URLs
}

var codeDomains = []string{"github.com", "gitlab.com", "bitbucket.org"}
var videoDomains = []string{"youtube.com", "vimeo.com", "youtu.be"}
var academicDomains = []string{"arxiv.org", "scholar.google", "ieee.org", "acm.org", "springer.com"}

// Results returns a deduplicated copy of the input with an annotation prefix
// folded into each snippet. The input slice is not modified.
func Results(results []search.Result) []search.Result {
	seenURLs := map[string]struct{}{}
	seenTitles := map[string]struct{}{}
	out := make([]search.Result, 0, len(results))
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if _, ok := seenURLs[r.URL]; ok {
			continue
		}
		titleKey := strings.ToLower(strings.TrimSpace(r.Title))
		if utf8.RuneCountInString(titleKey) > minTitleDedupChars {
			if _, ok := seenTitles[titleKey]; ok {
				continue
			}
			seenTitles[titleKey] = struct{}{}
		}
		seenURLs[r.URL] = struct{}{}

		if tags := tagsFor(r); len(tags) > 0 {
			prefix := "[" + strings.Join(tags, " | ") + "]"
			if r.Snippet != "" {
				r.Snippet = prefix + "\n" + r.Snippet
			} else {
				r.Snippet = prefix
			}
		}
		out = append(out, r)
	}
	return out
}

func tagsFor(r search.Result) []string {
	var tags []string
	if u, err := url.Parse(r.URL); err == nil && u.Host != "" {
		tags = append(tags, "🌐 "+strings.TrimPrefix(u.Host, "www."))
	}
	switch Classify(r.URL, r.Snippet) {
	case Documentation:
		tags = append(tags, "📚 Documentation")
	case CodeRepository:
		tags = append(tags, "💻 Code Repository")
	case Video:
		tags = append(tags, "🎥 Video")
	case Academic:
		tags = append(tags, "🎓 Academic")
	case News:
		tags = append(tags, "📰 News")
	}
	if words := len(strings.Fields(r.Snippet)); words > minWordsForReadingTime {
		minutes := words / wordsPerMinute
		if minutes < 1 {
			minutes = 1
		}
		tags = append(tags, fmt.Sprintf("⏱️ %d min read", minutes))
	}
	return tags
}

// Category is a coarse content-type classification of a result.
type Category int

const (
	Unknown Category = iota
	Documentation
	CodeRepository
	Video
	Academic
	News
)

// Classify inspects the URL (and occasionally the snippet) for content-type
// hints. First match wins, in decreasing order of confidence.
func Classify(rawURL, snippet string) Category {
	low := strings.ToLower(rawURL)
	for _, re := range docPatterns {
		if re.MatchString(low) {
			return Documentation
		}
	}
	if containsAnyDomain(low, codeDomains) {
		return CodeRepository
	}
	if containsAnyDomain(low, videoDomains) {
		return Video
	}
	if containsAnyDomain(low, academicDomains) {
		return Academic
	}
	for _, re := range newsPatterns {
		if re.MatchString(low) {
			return News
		}
	}
	return Unknown
}

func containsAnyDomain(lowURL string, domains []string) bool {
	for _, d := range domains {
		if strings.Contains(lowURL, d) {
			return true
		}
	}
	return false
}
