// Package stt provides the streaming speech-recognition capability behind
// the assistant. A Recognizer consumes raw PCM16 frames one at a time and
// reports partial hypotheses while the utterance is still open; the endpoint
// detector uses partial non-emptiness as its voice-activity signal.
//
// Three backends exist: local Vosk (the default), local whisper.cpp, and a
// remote vosk-server reached over a websocket. They are interchangeable at
// startup; the rest of the program only sees the Recognizer interface.
package stt

import "fmt"

// SampleRate is the PCM rate every backend consumes.
const SampleRate = 16000

// EventKind tags the result of feeding one frame.
type EventKind int

const (
	// KindPartial carries an in-progress hypothesis; Text may be empty when
	// the recognizer hears nothing in the current window.
	KindPartial EventKind = iota
	// KindFinal carries a recognizer-committed transcript. Emitted when the
	// engine decides on its own that the utterance is complete.
	KindFinal
)

// Event is produced once per frame fed to a Recognizer.
type Event struct {
	Kind EventKind
	Text string
}

// Recognizer is a streaming speech recognizer. Implementations are not safe
// for concurrent use; the listening pipeline is single-consumer by design.
type Recognizer interface {
	// Feed consumes one frame of little-endian mono 16 kHz PCM16.
	Feed(frame []byte) (Event, error)

	// FinalResult flushes the engine and returns the transcript for the
	// audio fed since the last Reset. The text may be empty.
	FinalResult() (string, error)

	// Reset prepares the recognizer for a fresh utterance.
	Reset()

	// Close releases engine resources. The Recognizer is unusable afterwards.
	Close() error
}

// Backend names accepted by New.
const (
	BackendVosk    = "vosk"
	BackendWhisper = "whisper"
	BackendServer  = "server"
)

// Settings selects and configures a recognizer backend.
type Settings struct {
	Backend          string
	VoskModelPath    string
	WhisperModelPath string
	ServerURL        string
}

// New builds the configured backend.
func New(s Settings) (Recognizer, error) {
	switch s.Backend {
	case BackendVosk, "":
		return NewVosk(s.VoskModelPath)
	case BackendWhisper:
		return NewWhisper(s.WhisperModelPath)
	case BackendServer:
		return NewServer(s.ServerURL)
	default:
		return nil, fmt.Errorf("unknown recognizer backend %q", s.Backend)
	}
}
