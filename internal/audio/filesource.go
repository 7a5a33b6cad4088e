package audio

import (
	"context"
	"sync"
)

// FileSource feeds pre-decoded PCM through a FrameChannel with the same
// producer contract as Source. It is the capture backend for voicecart-file
// and for tests: after the material runs out it appends trailing silent
// frames so the endpoint detector can close the utterance the same way it
// would on a live microphone.
type FileSource struct {
	pcm      []byte
	trailing int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewFileSource wraps little-endian PCM16 at 16 kHz. trailingSilence is the
// number of all-zero frames appended after the material; it should exceed
// the detector's silence threshold.
func NewFileSource(pcm []byte, trailingSilence int) *FileSource {
	return &FileSource{pcm: pcm, trailing: trailingSilence}
}

func (s *FileSource) Start(ctx context.Context, ch *FrameChannel) error {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for off := 0; off < len(s.pcm); off += FrameBytes {
			end := off + FrameBytes
			if end > len(s.pcm) {
				end = len(s.pcm)
			}
			frame := make(Frame, FrameBytes)
			copy(frame, s.pcm[off:end])
			if err := ch.Push(ctx, frame); err != nil {
				return
			}
		}
		for i := 0; i < s.trailing; i++ {
			if err := ch.Push(ctx, make(Frame, FrameBytes)); err != nil {
				return
			}
		}
	}()
	return nil
}

func (s *FileSource) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
