// Package tts provides the speech-output capability. Availability varies by
// platform; when no engine works the assistant degrades to printed output
// instead of crashing the dialogue loop.
package tts

import (
	"fmt"
	"runtime"
)

// Speaker speaks one line of text, blocking until playback finishes.
type Speaker interface {
	Speak(text string) error
}

// Engine names accepted by New.
const (
	EngineEspeak  = "espeak"
	EngineSay     = "say"
	EngineConsole = "console"
)

// New selects a speech engine. An empty name picks the platform default:
// the native `say` command on macOS, espeak-ng elsewhere.
func New(engine string) (Speaker, error) {
	if engine == "" {
		if runtime.GOOS == "darwin" {
			engine = EngineSay
		} else {
			engine = EngineEspeak
		}
	}

	switch engine {
	case EngineEspeak:
		return &Espeak{}, nil
	case EngineSay:
		return &Say{}, nil
	case EngineConsole:
		return &Console{}, nil
	default:
		return nil, fmt.Errorf("unknown tts engine %q", engine)
	}
}
