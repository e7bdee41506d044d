// Package segment turns raw, possibly malformed HTML into an ordered list of
// candidate text blocks while tracking exclusion zones (navigation, ads,
// scripts and other boilerplate subtrees) so their text never leaks into the
// output.
package segment

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// MinBlockChars is the minimum trimmed length a block must exceed to be kept.
const MinBlockChars = 50

// excludedTags are elements whose entire subtree is boilerplate.
var excludedTags = map[string]struct{}{
	"nav":      {},
	"header":   {},
	"footer":   {},
	"aside":    {},
	"script":   {},
	"style":    {},
	"iframe":   {},
	"noscript": {},
	"form":     {},
	"button":   {},
	"input":    {},
	"select":   {},
	"option":   {},
	"textarea": {},
	"label":    {},
}

// contentTags are elements whose close finalizes the accumulated text run.
var contentTags = map[string]struct{}{
	"article": {},
	"main":    {},
	"section": {},
	"div":     {},
	"p":       {},
}

// boilerplateRe match class/id attribute values of elements that carry ads,
// social widgets, chrome and similar noise. Evaluated case-insensitively
// against the two attributes only.
var boilerplateRe = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bad(s|vert(isement)?)?\b`),
	regexp.MustCompile(`(?i)banner`),
	regexp.MustCompile(`(?i)promo`),
	regexp.MustCompile(`(?i)sponsor`),
	regexp.MustCompile(`(?i)social`),
	regexp.MustCompile(`(?i)share`),
	regexp.MustCompile(`(?i)comment`),
	regexp.MustCompile(`(?i)footer`),
	regexp.MustCompile(`(?i)header`),
	regexp.MustCompile(`(?i)\bnav\b|navigation`),
	regexp.MustCompile(`(?i)menu`),
	regexp.MustCompile(`(?i)sidebar`),
	regexp.MustCompile(`(?i)widget`),
	regexp.MustCompile(`(?i)popup`),
	regexp.MustCompile(`(?i)modal`),
	regexp.MustCompile(`(?i)cookie`),
	regexp.MustCompile(`(?i)subscribe`),
	regexp.MustCompile(`(?i)newsletter`),
}

// tagFrame is one entry on the open-tag stack.
type tagFrame struct {
	name string
	// exclusionRoot marks the frame that opened the current exclusion zone.
	exclusionRoot bool
}

// Analyzer consumes a token stream and accumulates content blocks. It owns
// all of its state, so distinct documents can be segmented concurrently with
// one Analyzer each.
type Analyzer struct {
	stack         []tagFrame
	excludedDepth int
	inExcluded    bool
	current       []string
	blocks        []string
}

// Blocks segments a whole document in one call. Unterminated trailing text
// that never saw a closing content tag is dropped, not emitted.
func Blocks(raw []byte) []string {
	a := &Analyzer{}
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// EOF or an unrecoverable tokenizer state. Either way we keep
			// whatever blocks were finalized before it.
			return a.blocks
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			a.openTag(string(name), classAndID(z, hasAttr))
		case html.SelfClosingTagToken:
			// Treat as open+close so exclusion bookkeeping stays balanced.
			name, hasAttr := z.TagName()
			tag := string(name)
			a.openTag(tag, classAndID(z, hasAttr))
			a.closeTag(tag)
		case html.EndTagToken:
			name, _ := z.TagName()
			a.closeTag(string(name))
		case html.TextToken:
			a.text(z.Text())
		}
	}
}

// classAndID collects the values of class and id attributes, ignoring the rest.
func classAndID(z *html.Tokenizer, hasAttr bool) []string {
	var vals []string
	for hasAttr {
		k, v, more := z.TagAttr()
		switch strings.ToLower(string(k)) {
		case "class", "id":
			vals = append(vals, string(v))
		}
		hasAttr = more
	}
	return vals
}

func (a *Analyzer) openTag(name string, attrVals []string) {
	if a.inExcluded {
		// Already inside an exclusion zone: just track depth, no need to
		// classify nested tags.
		a.stack = append(a.stack, tagFrame{name: name})
		a.excludedDepth++
		return
	}
	excl := isExcludedTag(name) || matchesBoilerplate(attrVals)
	a.stack = append(a.stack, tagFrame{name: name, exclusionRoot: excl})
	if excl {
		a.excludedDepth = 1
		a.inExcluded = true
	}
}

func (a *Analyzer) closeTag(name string) {
	// Pop the nearest matching open tag to tolerate out-of-order closes.
	// A close with no matching open is ignored entirely.
	for i := len(a.stack) - 1; i >= 0; i-- {
		if a.stack[i].name == name {
			a.stack = append(a.stack[:i], a.stack[i+1:]...)
			break
		}
	}
	if a.inExcluded {
		a.excludedDepth--
		if a.excludedDepth <= 0 {
			a.excludedDepth = 0
			a.inExcluded = false
		}
		return
	}
	if _, ok := contentTags[name]; ok {
		a.flush()
	}
}

func (a *Analyzer) text(data []byte) {
	if a.inExcluded {
		return
	}
	t := strings.TrimSpace(string(data))
	if t == "" {
		return
	}
	a.current = append(a.current, t)
}

// flush finalizes the pending accumulator into a block when it is long
// enough, and clears it either way.
func (a *Analyzer) flush() {
	if len(a.current) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(a.current, " "))
	a.current = a.current[:0]
	if utf8.RuneCountInString(text) > MinBlockChars {
		a.blocks = append(a.blocks, text)
	}
}

func isExcludedTag(name string) bool {
	_, ok := excludedTags[name]
	return ok
}

func matchesBoilerplate(attrVals []string) bool {
	for _, v := range attrVals {
		for _, re := range boilerplateRe {
			if re.MatchString(v) {
				return true
			}
		}
	}
	return false
}
