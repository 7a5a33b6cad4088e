package listen

import (
	"context"
	"errors"
	"fmt"

	"voicecart/internal/audio"
	"voicecart/pkg/stt"
)

// Mic binds a recognizer to the live microphone. Each Listen call acquires
// the device fresh, runs one attempt and releases the device before
// returning, so attempts never overlap on the hardware.
type Mic struct {
	Rec    stt.Recognizer
	Frames *audio.FrameChannel
	Cfg    Config
}

func (m *Mic) Listen(ctx context.Context) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	src := audio.NewSource()
	if err := src.Start(ctx, m.Frames); err != nil {
		return "", fmt.Errorf("microphone: %w", err)
	}
	defer src.Stop()

	// A dead capture goroutine would starve Pop forever; fold its exit into
	// cancellation so the attempt unwinds promptly.
	go func() {
		<-src.Done()
		cancel()
	}()

	text, err := New(m.Rec, m.Frames, m.Cfg).Listen(ctx)
	if err != nil {
		if derr := src.Err(); derr != nil && errors.Is(err, ErrAbandoned) {
			return "", fmt.Errorf("microphone: %w", derr)
		}
		return "", err
	}
	return text, nil
}
