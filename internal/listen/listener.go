// Package listen turns the continuous microphone stream into discrete
// utterances. A Listener pops frames from the capture channel, feeds them to
// the streaming recognizer and runs a silence-countdown state machine over
// the partial results to decide when the user has finished speaking.
//
// Partial-result non-emptiness is used purely as a cheap voice-activity
// signal. The silence threshold trades turn-taking latency against
// robustness to mid-sentence pauses: lower finalizes faster but risks
// cutting the speaker off.
package listen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voicecart/internal/audio"
	"voicecart/pkg/stt"
)

// State of one listening attempt.
type State int

const (
	// StateIdle: attempt not started.
	StateIdle State = iota
	// StateAwaitingSpeech: frames flowing, no voice activity observed yet.
	StateAwaitingSpeech
	// StateInSpeech: the recognizer reports non-empty partials.
	StateInSpeech
	// StateTrailingSilence: speech was observed, now counting empty partials.
	StateTrailingSilence
	// StateFinalized: a transcript was produced (or the attempt settled empty).
	StateFinalized
	// StateAbandoned: the attempt was cancelled externally.
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingSpeech:
		return "awaiting-speech"
	case StateInSpeech:
		return "in-speech"
	case StateTrailingSilence:
		return "trailing-silence"
	case StateFinalized:
		return "finalized"
	case StateAbandoned:
		return "abandoned"
	}
	return "unknown"
}

var (
	// ErrNoSpeech: the attempt ended without any voice activity.
	ErrNoSpeech = errors.New("no speech detected")
	// ErrNoText: voice activity was observed but the recognizer committed no
	// words. The caller should ask the user to repeat.
	ErrNoText = errors.New("speech detected but nothing recognized")
	// ErrAbandoned: the attempt was cancelled before an utterance completed.
	ErrAbandoned = errors.New("listening attempt abandoned")
)

// Config tunes one listening attempt.
type Config struct {
	// SilenceThreshold is the number of consecutive empty-partial frames,
	// after speech has been observed, that closes the utterance.
	SilenceThreshold int
	// MaxFrames bounds the whole attempt. With 500 ms frames the default of
	// 240 is two minutes; an all-silence attempt gives up long before a
	// stuck microphone could hang the loop forever.
	MaxFrames int
}

const (
	DefaultSilenceThreshold = 30
	DefaultMaxFrames        = 240
)

// WithDefaults fills in the zero fields.
func (c Config) WithDefaults() Config {
	if c.SilenceThreshold <= 0 {
		c.SilenceThreshold = DefaultSilenceThreshold
	}
	if c.MaxFrames <= 0 {
		c.MaxFrames = DefaultMaxFrames
	}
	return c
}

// Listener runs one listening attempt. Create a fresh one per attempt.
type Listener struct {
	rec    stt.Recognizer
	frames *audio.FrameChannel
	cfg    Config

	state   State
	silence int
}

func New(rec stt.Recognizer, frames *audio.FrameChannel, cfg Config) *Listener {
	return &Listener{rec: rec, frames: frames, cfg: cfg.WithDefaults(), state: StateIdle}
}

// State reports the current attempt state.
func (l *Listener) State() State { return l.state }

// Listen consumes frames until the utterance ends and returns the normalized
// transcript. The channel is drained first so stale audio from a previous
// attempt never leaks into this one.
//
// Outcomes: a transcript; ErrNoSpeech when no voice activity ever showed up;
// ErrNoText when speech was heard but nothing was recognized; ErrAbandoned
// when ctx is cancelled; any other error is a capture or engine failure.
func (l *Listener) Listen(ctx context.Context) (string, error) {
	l.frames.Drain()
	l.rec.Reset()
	l.state = StateAwaitingSpeech
	l.silence = 0

	for i := 0; i < l.cfg.MaxFrames; i++ {
		frame, err := l.frames.Pop(ctx)
		if err != nil {
			l.state = StateAbandoned
			return "", ErrAbandoned
		}

		ev, err := l.rec.Feed(frame)
		if err != nil {
			l.state = StateAbandoned
			return "", fmt.Errorf("feed recognizer: %w", err)
		}

		switch ev.Kind {
		case stt.KindFinal:
			// The engine closed the utterance on its own. An empty final is
			// ignored: vosk flushes one for leading noise.
			if text := Normalize(ev.Text); text != "" {
				l.state = StateFinalized
				return text, nil
			}

		case stt.KindPartial:
			if ev.Text != "" {
				l.state = StateInSpeech
				l.silence = 0
				continue
			}
			if l.state != StateInSpeech && l.state != StateTrailingSilence {
				continue // still waiting for the first word
			}
			l.state = StateTrailingSilence
			l.silence++
			if l.silence > l.cfg.SilenceThreshold {
				return l.finalize()
			}
		}
	}

	// Hard ceiling reached.
	if l.state == StateAwaitingSpeech {
		l.state = StateFinalized
		return "", ErrNoSpeech
	}
	return l.finalize()
}

func (l *Listener) finalize() (string, error) {
	text, err := l.rec.FinalResult()
	l.state = StateFinalized
	if err != nil {
		return "", fmt.Errorf("final result: %w", err)
	}
	if text = Normalize(text); text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Normalize lower-cases and trims a transcript.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
