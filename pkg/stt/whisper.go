package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"voicecart/pkg/audioconv"
)

// voiceRMSThreshold is the frame energy above which a frame counts as speech
// for the whisper backend's synthetic partials. Tune per microphone.
const voiceRMSThreshold = 0.015

// speechMarker is the placeholder partial text emitted while voice energy is
// present. Whisper cannot decode incrementally, so the endpoint detector
// only needs a non-empty/empty signal here, not a real hypothesis.
const speechMarker = "..."

// WhisperRecognizer runs whisper.cpp over the whole buffered utterance on
// FinalResult. Partial events are synthesized from frame RMS energy, which is
// enough for the silence-countdown endpointing to work; the actual transcript
// only exists once the utterance is closed.
type WhisperRecognizer struct {
	model whisper.Model
	buf   []float32
}

func NewWhisper(modelPath string) (*WhisperRecognizer, error) {
	if modelPath == "" {
		return nil, errors.New("empty whisper model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load whisper model: %w", err)
	}
	return &WhisperRecognizer{model: m}, nil
}

func (w *WhisperRecognizer) Feed(frame []byte) (Event, error) {
	samples := audioconv.BytesToFloat32(frame)
	w.buf = append(w.buf, samples...)

	if audioconv.RMS(samples) > voiceRMSThreshold {
		return Event{Kind: KindPartial, Text: speechMarker}, nil
	}
	return Event{Kind: KindPartial}, nil
}

func (w *WhisperRecognizer) FinalResult() (string, error) {
	if len(w.buf) == 0 {
		return "", nil
	}
	return w.transcribe(context.Background(), w.buf)
}

func (w *WhisperRecognizer) Reset() {
	w.buf = w.buf[:0]
}

func (w *WhisperRecognizer) Close() error {
	if w.model == nil {
		return nil
	}
	err := w.model.Close()
	w.model = nil
	return err
}

func (w *WhisperRecognizer) transcribe(ctx context.Context, pcm16k []float32) (string, error) {
	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new whisper context: %w", err)
	}

	if err := wctx.SetLanguage("en"); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	wctx.SetThreads(uint(runtime.NumCPU()))

	if err := wctx.Process(pcm16k, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whisper process: %w", err)
	}

	var parts []string
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}
		parts = append(parts, strings.TrimSpace(seg.Text))
	}
	return strings.Join(parts, " "), nil
}
