// Package nlu classifies finalized transcripts into dialogue outcomes.
//
// Classification is deliberately dumb: case-insensitive substring matching
// against small keyword sets, with keywords taking priority over treating
// the text as a product query. A query like "exit sign" therefore dispatches
// as Exit — known ambiguity, kept as documented behavior rather than
// silently re-interpreted.
package nlu

import "strings"

// Outcome of classifying one transcript.
type Outcome int

const (
	// OutcomeRetry: nothing usable was said; listen again.
	OutcomeRetry Outcome = iota
	// OutcomeExit: the user wants to leave.
	OutcomeExit
	// OutcomeHelp: the user asked for usage guidance.
	OutcomeHelp
	// OutcomeQuery: treat the transcript as a product search.
	OutcomeQuery
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRetry:
		return "retry"
	case OutcomeExit:
		return "exit"
	case OutcomeHelp:
		return "help"
	case OutcomeQuery:
		return "query"
	}
	return "unknown"
}

// Dispatch is a classified transcript. Query carries the search text only
// for OutcomeQuery.
type Dispatch struct {
	Outcome Outcome
	Query   string
}

var exitWords = []string{"exit", "quit", "goodbye", "bye"}

// stopWords additionally end the session when answering the
// "search for something else?" follow-up.
var stopWords = []string{"no", "nope", "exit", "quit"}

// Classify maps any transcript to exactly one outcome.
func Classify(transcript string) Dispatch {
	text := strings.ToLower(strings.TrimSpace(transcript))
	if text == "" {
		return Dispatch{Outcome: OutcomeRetry}
	}
	if containsAny(text, exitWords) {
		return Dispatch{Outcome: OutcomeExit}
	}
	if strings.Contains(text, "help") {
		return Dispatch{Outcome: OutcomeHelp}
	}
	return Dispatch{Outcome: OutcomeQuery, Query: text}
}

// WantsToStop reports whether a follow-up answer means the user is done.
func WantsToStop(transcript string) bool {
	text := strings.ToLower(strings.TrimSpace(transcript))
	return text != "" && containsAny(text, stopWords)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
