// Package audio owns microphone capture and the frame hand-off between the
// capture goroutine and the recognition consumer.
package audio

import "context"

const (
	// SampleRate is fixed at 16 kHz, the rate every recognizer backend expects.
	SampleRate = 16000
	// FrameSamples is the capture block size: 8000 samples, 500 ms.
	FrameSamples = 8000
	// FrameBytes is the size of one frame as little-endian PCM16.
	FrameBytes = FrameSamples * 2
	// DefaultChannelCap bounds the frame queue. A full queue blocks the
	// producer rather than dropping audio.
	DefaultChannelCap = 16
)

// Frame is one block of raw little-endian mono PCM16 samples.
type Frame []byte

// FrameChannel is a bounded FIFO hand-off between exactly one capture
// producer and one recognition consumer. Ordering is strict capture order;
// a full channel exerts backpressure on the producer.
type FrameChannel struct {
	ch chan Frame
}

func NewFrameChannel(capacity int) *FrameChannel {
	if capacity <= 0 {
		capacity = DefaultChannelCap
	}
	return &FrameChannel{ch: make(chan Frame, capacity)}
}

// Push blocks while the channel is full. It returns ctx.Err() if the context
// is cancelled before the frame is accepted.
func (c *FrameChannel) Push(ctx context.Context, f Frame) error {
	select {
	case c.ch <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop blocks while the channel is empty. It returns ctx.Err() if the context
// is cancelled before a frame arrives.
func (c *FrameChannel) Pop(ctx context.Context) (Frame, error) {
	select {
	case f := <-c.ch:
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Drain discards whatever is queued. Called before a new listening attempt so
// stale audio from the previous attempt never reaches the recognizer.
func (c *FrameChannel) Drain() {
	for {
		select {
		case <-c.ch:
		default:
			return
		}
	}
}

// Len reports the number of queued frames.
func (c *FrameChannel) Len() int { return len(c.ch) }
