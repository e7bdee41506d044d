// Package trigger handles the opt-in tokens users put anywhere in a query to
// invoke the answer pipeline (for example "!!sum" or "!!ask").
package trigger

import "strings"

// Default tokens; overridable through configuration.
const (
	Summarize = "!!sum"
	Quick     = "!!ask"
)

// Has reports whether the token appears anywhere in the query.
func Has(query, token string) bool {
	return token != "" && strings.Contains(query, token)
}

// Strip removes every occurrence of the token and normalizes the remaining
// whitespace, so "best laptop !!sum" and "!!sum best laptop" both clean to
// "best laptop".
func Strip(query, token string) string {
	if token == "" {
		return strings.Join(strings.Fields(query), " ")
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(query, token, " ")), " ")
}
