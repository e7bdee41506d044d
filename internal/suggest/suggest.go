// Package suggest derives refinement suggestions for a query from common
// search patterns and from recurring terms in the result titles. Purely
// lexical; no model calls.
package suggest

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hyperifyio/goanswer/internal/search"
)

const (
	maxSuggestions = 5
	// titleTermMinCount is how often a title term must recur to be offered.
	titleTermMinCount = 2
	// topResultsForTerms caps how many titles contribute terms.
	topResultsForTerms = 10
)

// refinements maps query patterns to alternative phrasings.
var refinements = map[string][]string{
	"how to": {"tutorial", "guide", "step by step", "learn"},
	"what is": {"definition", "explained", "meaning", "overview"},
	"best":    {"top", "recommended", "comparison", "review"},
	"vs":      {"comparison", "difference between", "which is better"},
}

// techKeywords are terms whose suggestions keep their original casing and
// gain documentation/tutorial/example variants.
var techKeywords = map[string]struct{}{
	"python": {}, "javascript": {}, "java": {}, "rust": {}, "golang": {},
	"typescript": {}, "react": {}, "vue": {}, "angular": {}, "node": {},
	"django": {}, "flask": {}, "docker": {}, "kubernetes": {}, "aws": {},
	"azure": {}, "gcp": {},
}

var timeKeywords = []string{"latest", "current", "new", "recent", "modern", "updated"}

var titleWordRe = regexp.MustCompile(`[a-z0-9]{4,}`)

var titleCaser = cases.Title(language.English)

// Suggestions returns up to five unique refinements for the query, never
// including the query itself. Short queries yield nothing.
func Suggestions(query string, results []search.Result) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 3 {
		return nil
	}

	var candidates []string

	// Refinement suggestions, in deterministic pattern order.
	for _, pattern := range refinementPatterns() {
		if !strings.Contains(q, pattern) {
			continue
		}
		base := strings.TrimSpace(strings.ReplaceAll(q, pattern, ""))
		for _, alt := range refinements[pattern] {
			if !strings.Contains(q, alt) {
				candidates = append(candidates, alt+" "+base)
			}
		}
	}

	// Technical query enhancements.
	queryWords := map[string]struct{}{}
	hasTech := false
	for _, w := range strings.Fields(q) {
		queryWords[w] = struct{}{}
		if _, ok := techKeywords[w]; ok {
			hasTech = true
		}
	}
	if hasTech {
		if !strings.Contains(q, "tutorial") && !strings.Contains(q, "guide") {
			candidates = append(candidates, q+" tutorial")
		}
		if !strings.Contains(q, "documentation") && !strings.Contains(q, "docs") {
			candidates = append(candidates, q+" documentation")
		}
		if !strings.Contains(q, "example") && !strings.Contains(q, "examples") {
			candidates = append(candidates, q+" examples")
		}
	}

	// Recurring terms from the top result titles.
	counts := map[string]int{}
	var order []string
	top := results
	if len(top) > topResultsForTerms {
		top = top[:topResultsForTerms]
	}
	for _, r := range top {
		for _, w := range titleWordRe.FindAllString(strings.ToLower(r.Title), -1) {
			if _, inQuery := queryWords[w]; inQuery {
				continue
			}
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	for i, term := range order {
		if i >= maxSuggestions {
			break
		}
		if counts[term] >= titleTermMinCount && !strings.Contains(q, term) {
			candidates = append(candidates, q+" "+term)
		}
	}

	// Pin a year onto time-sensitive queries.
	for _, kw := range timeKeywords {
		if strings.Contains(q, kw) {
			year := time.Now().Format("2006")
			if !strings.Contains(q, year) {
				candidates = append(candidates, q+" "+year)
			}
			break
		}
	}

	if (strings.Contains(q, "best") || strings.Contains(q, "top")) && !strings.Contains(q, "alternative") {
		candidates = append(candidates, q+" alternatives")
	}

	// Dedupe, drop the original query, cap and apply casing.
	seen := map[string]struct{}{}
	var out []string
	for _, c := range candidates {
		norm := strings.ToLower(strings.TrimSpace(c))
		if norm == "" || norm == q {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		if containsTechKeyword(norm) {
			out = append(out, norm)
		} else {
			out = append(out, titleCaser.String(norm))
		}
		if len(out) >= maxSuggestions {
			break
		}
	}
	return out
}

// refinementPatterns returns the pattern keys in a stable order so output
// does not depend on map iteration.
func refinementPatterns() []string {
	return []string{"how to", "what is", "best", "vs"}
}

func containsTechKeyword(s string) bool {
	for _, w := range strings.Fields(s) {
		if _, ok := techKeywords[w]; ok {
			return true
		}
	}
	return false
}
