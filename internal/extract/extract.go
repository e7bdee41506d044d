// Package extract selects the query-relevant substance of a fetched page
// under a character budget. It tries a structured parse of the markup first
// and degrades to a generic boilerplate-stripping extractor, never raising
// for bad input: an unusable page simply produces no result.
package extract

import (
	"bytes"
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/markusmobius/go-trafilatura"

	"github.com/hyperifyio/goanswer/internal/score"
	"github.com/hyperifyio/goanswer/internal/segment"
)

// Combined-score weights and thresholds. Empirically chosen in the field;
// keep them as a set when tuning.
const (
	densityWeight   = 0.4
	relevanceWeight = 0.6

	// structuredCutoff is the minimum combined score a segmented block must
	// reach; the generic fallback accepts weaker paragraphs.
	structuredCutoff = 0.1
	fallbackCutoff   = 0.05

	// minResultChars is the minimum usable result length for any strategy.
	minResultChars = 100
	// minParagraphChars filters fragments out of the fallback paragraphs.
	minParagraphChars = 50
	// tailRoomChars is how much budget must remain for a final block to be
	// worth truncating into place.
	tailRoomChars = 200
)

// Ellipsis terminates results that were cut mid-block. Output length never
// exceeds the budget by more than this marker.
const Ellipsis = "…"

const blockSeparator = "\n\n"

// ErrInvalidBudget reports a caller contract violation; it is the only error
// Extract surfaces.
var ErrInvalidBudget = errors.New("extract: char budget must be positive")

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

// Extract returns the best text for the query within charBudget characters.
// ok is false when no strategy produced usable content, which is a normal
// outcome for thin or hostile pages, not an error.
func Extract(raw []byte, query string, charBudget int) (text string, ok bool, err error) {
	if charBudget <= 0 {
		return "", false, ErrInvalidBudget
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", false, nil
	}
	if text, ok := structured(raw, query, charBudget); ok {
		return text, true, nil
	}
	if text, ok := generic(raw, query, charBudget); ok {
		return text, true, nil
	}
	return "", false, nil
}

type scoredBlock struct {
	text     string
	combined float64
}

// structured runs the segmenter and assembles the highest scoring blocks.
func structured(raw []byte, query string, budget int) (string, bool) {
	blocks := segment.Blocks(raw)
	if len(blocks) == 0 {
		return "", false
	}
	out := assemble(rank(blocks, query), budget, structuredCutoff)
	if utf8.RuneCountInString(out) <= minResultChars {
		return "", false
	}
	return out, true
}

// generic applies the general-purpose extractor, re-scores its paragraphs
// and falls back to its raw output when no paragraph clears the cutoff.
func generic(raw []byte, query string, budget int) (string, bool) {
	opts := trafilatura.Options{
		ExcludeComments: true,
		ExcludeTables:   false,
		Focus:           trafilatura.FavorPrecision,
		EnableFallback:  true,
	}
	result, err := trafilatura.Extract(bytes.NewReader(raw), opts)
	if err != nil || result == nil {
		return "", false
	}
	full := strings.TrimSpace(result.ContentText)
	if full == "" {
		return "", false
	}

	var paragraphs []string
	for _, p := range paragraphSplitRe.Split(full, -1) {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) >= minParagraphChars {
			paragraphs = append(paragraphs, p)
		}
	}
	out := assemble(rank(paragraphs, query), budget, fallbackCutoff)
	if utf8.RuneCountInString(out) > minResultChars {
		return out, true
	}

	// Last resort: the raw extractor output, budget-truncated.
	if utf8.RuneCountInString(full) > minResultChars {
		if utf8.RuneCountInString(full) > budget {
			return truncateRunes(full, budget) + Ellipsis, true
		}
		return full, true
	}
	return "", false
}

// rank scores each block and orders them by combined score, descending.
// The sort is stable so equally scored blocks keep document order.
func rank(blocks []string, query string) []scoredBlock {
	scored := make([]scoredBlock, 0, len(blocks))
	for _, b := range blocks {
		c := densityWeight*score.Density(b) + relevanceWeight*score.Relevance(b, query)
		scored = append(scored, scoredBlock{text: b, combined: c})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].combined > scored[j].combined
	})
	return scored
}

// assemble greedily accumulates ranked blocks under the budget, stopping at
// the first block below cutoff. A final block that does not fit is truncated
// into place only when at least tailRoomChars of budget remain.
func assemble(scored []scoredBlock, budget int, cutoff float64) string {
	var parts []string
	used := 0
	truncated := false
	sepRunes := utf8.RuneCountInString(blockSeparator)
	for _, sb := range scored {
		if sb.combined < cutoff {
			break
		}
		sepLen := 0
		if len(parts) > 0 {
			sepLen = sepRunes
		}
		n := utf8.RuneCountInString(sb.text)
		if used+sepLen+n > budget {
			remaining := budget - used - sepLen
			if remaining >= tailRoomChars {
				parts = append(parts, truncateRunes(sb.text, remaining))
				truncated = true
			}
			break
		}
		parts = append(parts, sb.text)
		used += sepLen + n
	}
	out := strings.Join(parts, blockSeparator)
	if truncated {
		out += Ellipsis
	}
	return out
}

// truncateRunes cuts s to at most n runes without splitting a code point.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
