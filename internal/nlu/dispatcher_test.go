package nlu

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		transcript string
		outcome    Outcome
		query      string
	}{
		{"empty", "", OutcomeRetry, ""},
		{"whitespace only", "   \n", OutcomeRetry, ""},
		{"plain query", "wireless headphones", OutcomeQuery, "wireless headphones"},
		{"query is lowercased", "  Wireless Headphones ", OutcomeQuery, "wireless headphones"},
		{"exit", "exit", OutcomeExit, ""},
		{"goodbye", "goodbye", OutcomeExit, ""},
		{"quit embedded", "please quit now", OutcomeExit, ""},
		{"bye uppercase", "BYE", OutcomeExit, ""},
		{"help", "help", OutcomeHelp, ""},
		{"help embedded", "can you help me", OutcomeHelp, ""},
		// Keywords win over query interpretation, even mid-word.
		{"exit sign", "exit sign", OutcomeExit, ""},
		{"exit beats help", "help me exit", OutcomeExit, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.transcript)
			if d.Outcome != tt.outcome {
				t.Errorf("Classify(%q).Outcome = %s, want %s", tt.transcript, d.Outcome, tt.outcome)
			}
			if d.Query != tt.query {
				t.Errorf("Classify(%q).Query = %q, want %q", tt.transcript, d.Query, tt.query)
			}
		})
	}
}

func TestWantsToStop(t *testing.T) {
	t.Parallel()

	stop := []string{"no", "Nope", "no thanks", "quit", "exit"}
	for _, s := range stop {
		if !WantsToStop(s) {
			t.Errorf("WantsToStop(%q) = false, want true", s)
		}
	}
	keep := []string{"", "yes", "sure", "laptop stand"}
	for _, s := range keep {
		if WantsToStop(s) {
			t.Errorf("WantsToStop(%q) = true, want false", s)
		}
	}
}
