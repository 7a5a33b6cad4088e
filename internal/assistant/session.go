// Package assistant runs the top-level dialogue loop: speak a prompt, listen
// for one utterance, dispatch it, speak the response, repeat until the user
// says goodbye or the process is interrupted. Per-turn failures are absorbed
// into spoken remediation; only explicit exit intent or cancellation ends
// the loop.
package assistant

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"

	"voicecart/internal/listen"
	"voicecart/internal/nlu"
	"voicecart/internal/search"
	"voicecart/internal/tts"
)

const (
	greeting = "Hello! I'm your voice shopping assistant. What can I help you find today?"
	helpText = "Just tell me what product you're looking for, and I'll search for it online. " +
		"Say 'goodbye' when you're done shopping."
	repeatPrompt   = "I didn't catch that. Please try again."
	micErrorText   = "Sorry, there was an error with the microphone."
	noResultsText  = "I couldn't find any products. Please try describing what you're looking for differently."
	followUpPrompt = "Would you like to search for something else?"
	farewell       = "Thank you for using the shopping assistant. Goodbye!"
	shortFarewell  = "Goodbye!"
)

// Transcriber is the listening capability: one call, one utterance.
// *listen.Mic satisfies it in production.
type Transcriber interface {
	Listen(ctx context.Context) (string, error)
}

// Responder turns search results into the spoken answer.
type Responder interface {
	Respond(ctx context.Context, query string, products []search.Product) string
}

// Session wires the capabilities together. Construct once at startup; the
// only state that survives a turn is the exit decision.
type Session struct {
	Listener   Transcriber
	Searcher   search.Searcher
	Responder  Responder
	Speaker    tts.Speaker
	MaxResults int

	// Cue is invoked right before listening starts; nil disables the earcon.
	Cue func()
}

// Run drives the dialogue until exit intent or ctx cancellation. A farewell
// is spoken in both cases.
func (s *Session) Run(ctx context.Context) {
	s.say(greeting)

	for {
		if ctx.Err() != nil {
			s.say(shortFarewell)
			return
		}

		text, ok := s.hear(ctx)
		if !ok {
			s.say(shortFarewell)
			return
		}

		d := nlu.Classify(text)
		log.Debug("dispatched", "outcome", d.Outcome.String(), "transcript", text)

		switch d.Outcome {
		case nlu.OutcomeRetry:
			continue

		case nlu.OutcomeExit:
			s.say(farewell)
			return

		case nlu.OutcomeHelp:
			s.say(helpText)

		case nlu.OutcomeQuery:
			if done := s.handleQuery(ctx, d.Query); done {
				return
			}
		}
	}
}

// handleQuery runs one search turn. It reports true when the session should
// end (the user declined to continue).
func (s *Session) handleQuery(ctx context.Context, query string) bool {
	s.say(fmt.Sprintf("Searching for %s...", query))

	products := s.Searcher.Search(ctx, query, s.MaxResults)
	if len(products) == 0 {
		s.say(noResultsText)
		return false
	}

	s.say(s.Responder.Respond(ctx, query, products))
	s.say(followUpPrompt)

	answer, ok := s.hear(ctx)
	if !ok {
		s.say(shortFarewell)
		return true
	}
	if nlu.WantsToStop(answer) {
		s.say("Thank you for shopping! Goodbye!")
		return true
	}
	return false
}

// hear runs one listening attempt, converting the non-fatal outcomes into a
// spoken nudge and an empty transcript. ok is false only when the session
// was abandoned and the loop should wind down.
func (s *Session) hear(ctx context.Context) (text string, ok bool) {
	if s.Cue != nil {
		s.Cue()
	}
	log.Info("listening")

	text, err := s.Listener.Listen(ctx)
	switch {
	case err == nil:
		log.Info("heard", "transcript", text)
		return text, true
	case errors.Is(err, listen.ErrAbandoned), errors.Is(err, context.Canceled):
		return "", false
	case errors.Is(err, listen.ErrNoSpeech), errors.Is(err, listen.ErrNoText):
		s.say(repeatPrompt)
		return "", true
	default:
		log.Error("listening failed", "err", err)
		s.say(micErrorText)
		return "", true
	}
}

// say prints and speaks one assistant line. Speech failures degrade to the
// printed line; they never interrupt the session.
func (s *Session) say(text string) {
	fmt.Printf("Assistant: %s\n", text)
	if s.Speaker == nil {
		return
	}
	if err := s.Speaker.Speak(text); err != nil {
		log.Warn("speech output unavailable", "err", err)
	}
}
