package stt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	vosk "github.com/alphacep/vosk-api/go"
)

// VoskRecognizer wraps a local Kaldi/Vosk model. It is the default backend:
// the only one with true incremental partial results, which makes it the
// best fit for silence-based endpointing.
type VoskRecognizer struct {
	model *vosk.VoskModel
	rec   *vosk.VoskRecognizer
}

type voskResult struct {
	Text    string `json:"text"`
	Partial string `json:"partial"`
}

func NewVosk(modelPath string) (*VoskRecognizer, error) {
	if modelPath == "" {
		return nil, errors.New("empty vosk model path")
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("vosk model not found at %s: %w", modelPath, err)
	}

	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load vosk model: %w", err)
	}
	rec, err := vosk.NewRecognizer(model, float64(SampleRate))
	if err != nil {
		model.Free()
		return nil, fmt.Errorf("create vosk recognizer: %w", err)
	}
	rec.SetWords(1)

	return &VoskRecognizer{model: model, rec: rec}, nil
}

func (v *VoskRecognizer) Feed(frame []byte) (Event, error) {
	if v.rec.AcceptWaveform(frame) != 0 {
		text, err := parseVosk(v.rec.Result(), false)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindFinal, Text: text}, nil
	}

	text, err := parseVosk(v.rec.PartialResult(), true)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindPartial, Text: text}, nil
}

func (v *VoskRecognizer) FinalResult() (string, error) {
	return parseVosk(v.rec.FinalResult(), false)
}

func (v *VoskRecognizer) Reset() {
	v.rec.Reset()
}

func (v *VoskRecognizer) Close() error {
	if v.rec != nil {
		v.rec.Free()
		v.rec = nil
	}
	if v.model != nil {
		v.model.Free()
		v.model = nil
	}
	return nil
}

func parseVosk(raw string, partial bool) (string, error) {
	var res voskResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return "", fmt.Errorf("parse vosk result: %w (raw: %s)", err, raw)
	}
	if partial {
		return res.Partial, nil
	}
	return res.Text, nil
}
