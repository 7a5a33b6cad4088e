package audio

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestFrameChannel_FIFO(t *testing.T) {
	t.Parallel()

	ch := NewFrameChannel(4)
	ctx := context.Background()
	for i := byte(0); i < 4; i++ {
		if err := ch.Push(ctx, Frame{i}); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if ch.Len() != 4 {
		t.Fatalf("expected 4 queued, got %d", ch.Len())
	}
	for i := byte(0); i < 4; i++ {
		f, err := ch.Pop(ctx)
		if err != nil {
			t.Fatalf("pop %d: %v", i, err)
		}
		if f[0] != i {
			t.Errorf("expected frame %d in order, got %d", i, f[0])
		}
	}
}

func TestFrameChannel_PushBlocksWhenFull(t *testing.T) {
	t.Parallel()

	ch := NewFrameChannel(1)
	ctx := context.Background()
	if err := ch.Push(ctx, Frame{1}); err != nil {
		t.Fatalf("push: %v", err)
	}

	blocked, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	err := ch.Push(blocked, Frame{2})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the second push to block until cancellation, got %v", err)
	}

	// The queued frame is untouched: backpressure, not drop.
	f, err := ch.Pop(ctx)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if f[0] != 1 {
		t.Errorf("expected the original frame, got %d", f[0])
	}
}

func TestFrameChannel_PopBlocksWhenEmpty(t *testing.T) {
	t.Parallel()

	ch := NewFrameChannel(1)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := ch.Pop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected pop on empty channel to block until cancellation, got %v", err)
	}
}

func TestFrameChannel_Drain(t *testing.T) {
	t.Parallel()

	ch := NewFrameChannel(4)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := ch.Push(ctx, Frame{byte(i)}); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	ch.Drain()
	if ch.Len() != 0 {
		t.Errorf("expected empty channel after drain, got %d", ch.Len())
	}
}

func TestFileSource_FramesAndTrailingSilence(t *testing.T) {
	t.Parallel()

	// One and a half frames of non-zero material.
	pcm := bytes.Repeat([]byte{0x01}, FrameBytes+FrameBytes/2)
	src := NewFileSource(pcm, 2)

	ch := NewFrameChannel(8)
	ctx := context.Background()
	if err := src.Start(ctx, ch); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer src.Stop()

	var frames []Frame
	for i := 0; i < 4; i++ {
		f, err := ch.Pop(ctx)
		if err != nil {
			t.Fatalf("pop %d: %v", i, err)
		}
		if len(f) != FrameBytes {
			t.Fatalf("frame %d: expected %d bytes, got %d", i, FrameBytes, len(f))
		}
		frames = append(frames, f)
	}

	if frames[0][0] != 0x01 {
		t.Errorf("first frame should carry material")
	}
	// Second frame is half material, half zero padding.
	if frames[1][0] != 0x01 || frames[1][FrameBytes-1] != 0x00 {
		t.Errorf("second frame should be padded with zeros")
	}
	for i, f := range frames[2:] {
		if !bytes.Equal(f, make([]byte, FrameBytes)) {
			t.Errorf("trailing frame %d is not silent", i)
		}
	}
}
