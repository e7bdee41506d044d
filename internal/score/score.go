// Package score holds the pure scoring functions used to rank candidate text
// blocks: a query-independent content density estimate and a lexical
// relevance estimate against the user query. Both are total functions on
// [0,1] with no side effects.
package score

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Density sub-score weights. Empirically chosen; tune as a set.
const (
	lengthWeight      = 0.3
	wordDensityWeight = 0.25
	sentenceWeight    = 0.25
	alnumWeight       = 0.2
)

// Relevance sub-score weights.
const (
	termFrequencyWeight = 0.5
	phraseWeight        = 0.3
	positionWeight      = 0.2
)

const (
	// lengthCapChars is where the length sub-score saturates.
	lengthCapChars = 5000
	// wordsPerSentence is the assumed average sentence length.
	wordsPerSentence = 15
	// termSaturation is how many occurrences per query term count as a
	// full term-frequency score.
	termSaturation = 5
	// minTermChars filters short query tokens (articles, prepositions).
	minTermChars = 3
)

// Density estimates how much "real prose" a text contains from structural
// and statistical signals alone. Returns 0 for empty input.
func Density(text string) float64 {
	charCount := utf8.RuneCountInString(text)
	if charCount == 0 {
		return 0
	}
	wordCount := len(strings.Fields(text))

	lengthScore := math.Min(float64(charCount)/lengthCapChars, 1.0)

	wordDensity := math.Min(float64(wordCount)/float64(charCount)*10, 1.0)

	terminals := 0
	alnum := 0
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			terminals++
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			alnum++
		}
	}
	expectedSentences := math.Max(float64(wordCount)/wordsPerSentence, 1.0)
	sentenceScore := math.Min(float64(terminals)/expectedSentences, 1.0)

	alnumRatio := float64(alnum) / float64(charCount)

	return lengthWeight*lengthScore +
		wordDensityWeight*wordDensity +
		sentenceWeight*sentenceScore +
		alnumWeight*alnumRatio
}

// Relevance estimates how well a text matches the query using term
// frequency, exact phrase presence and earliest match position. Returns 0
// when either input is empty or the query has no qualifying terms.
func Relevance(text, query string) float64 {
	if text == "" || query == "" {
		return 0
	}
	lowText := strings.ToLower(text)
	lowQuery := strings.ToLower(strings.TrimSpace(query))
	terms := queryTerms(lowQuery)
	if len(terms) == 0 {
		return 0
	}

	freq := map[string]int{}
	for _, w := range tokenize(lowText) {
		freq[w]++
	}
	matches := 0
	for _, t := range terms {
		matches += freq[t]
	}
	termScore := math.Min(float64(matches)/float64(len(terms)*termSaturation), 1.0)

	phraseScore := 0.0
	if strings.Contains(lowText, lowQuery) {
		phraseScore = 1.0
	}

	positionScore := 0.0
	if n := len(lowText); n > 0 {
		earliest := n
		for _, t := range terms {
			if idx := strings.Index(lowText, t); idx >= 0 && idx < earliest {
				earliest = idx
			}
		}
		positionScore = 1.0 - float64(earliest)/float64(n)
	}

	return termFrequencyWeight*termScore +
		phraseWeight*phraseScore +
		positionWeight*positionScore
}

// queryTerms tokenizes a lowercase query keeping word tokens longer than two
// characters. No stemming, no stopword list beyond the length filter.
func queryTerms(lowQuery string) []string {
	var terms []string
	for _, t := range tokenize(lowQuery) {
		if utf8.RuneCountInString(t) >= minTermChars {
			terms = append(terms, t)
		}
	}
	return terms
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
