package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"voicecart/pkg/audioconv"
)

// Init initializes the portaudio runtime. Call once at startup, paired with
// Terminate at shutdown.
func Init() error {
	return portaudio.Initialize()
}

func Terminate() {
	portaudio.Terminate()
}

// Source captures fixed-size frames from the default microphone and pushes
// them into a FrameChannel from its own goroutine. One Source serves exactly
// one listening attempt: the device is opened on Start and fully released on
// Stop, so consecutive attempts never overlap on the hardware.
type Source struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	buf    []int16

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func NewSource() *Source {
	return &Source{buf: make([]int16, FrameSamples)}
}

// Start opens the default input stream (16 kHz, mono, int16) and begins
// pushing frames into ch. It returns an error if the device cannot be
// acquired; capture errors after that are reported via Err.
func (s *Source) Start(ctx context.Context, ch *FrameChannel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream != nil {
		return fmt.Errorf("audio source already started")
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(SampleRate), len(s.buf), s.buf)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.stream = stream
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.captureLoop(ctx, stream, ch)
	return nil
}

func (s *Source) captureLoop(ctx context.Context, stream *portaudio.Stream, ch *FrameChannel) {
	defer close(s.done)

	for {
		if ctx.Err() != nil {
			return
		}
		if err := stream.Read(); err != nil {
			s.setErr(fmt.Errorf("read input stream: %w", err))
			return
		}
		frame := Frame(audioconv.Int16ToBytes(s.buf))
		if err := ch.Push(ctx, frame); err != nil {
			return
		}
	}
}

// Stop tears the capture down deterministically: it cancels the goroutine,
// waits for it to exit, then stops and closes the stream so the device is
// free for the next attempt. Safe to call more than once.
func (s *Source) Stop() {
	s.mu.Lock()
	stream := s.stream
	cancel := s.cancel
	done := s.done
	s.stream = nil
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if stream == nil {
		return
	}
	cancel()
	<-done
	stream.Stop()
	stream.Close()
}

// Done is closed when the capture goroutine exits, normally or on error.
// Check Err to distinguish the two.
func (s *Source) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Err reports the capture error that ended the goroutine early, if any.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Source) setErr(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}
