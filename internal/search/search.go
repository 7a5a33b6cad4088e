// Package search turns a spoken product query into a bounded list of ranked
// product records. Backends talk to external services; any transport or
// parse failure yields an empty list (logged, never returned as an error),
// so to the dialogue loop a broken network and zero hits look the same.
package search

import (
	"context"
	"unicode/utf8"
)

// maxDescriptionRunes caps snippet length in spoken summaries.
const maxDescriptionRunes = 150

// Product is one normalized search hit. Rank is 1-based source order.
type Product struct {
	Rank        int
	Title       string
	Price       string
	Link        string
	Description string
}

// Searcher is the product-search capability. Implementations never return
// more than maxResults records, assign strictly increasing ranks starting at
// 1, and never fail loudly: a failed call is an empty list and a log line.
// No retries; a failed call is terminal for the turn.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) []Product
}

func truncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= maxDescriptionRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxDescriptionRunes])
}
