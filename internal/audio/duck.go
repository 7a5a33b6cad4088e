package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

type playbackStream struct {
	ID      int
	Volume  int
	AppName string
}

// Ducker lowers other applications' playback volume (PulseAudio sink inputs)
// while the microphone is open, so background music does not leak into
// recognition, and restores the original volumes afterwards. Streams whose
// application.name matches selfNames are left alone.
//
// Linux/pactl only; on hosts without pactl every call fails softly and the
// caller just listens over the music.
type Ducker struct {
	mu          sync.Mutex
	active      bool
	selfNames   []string
	originalVol map[int]int
	minVolume   int
}

func NewDucker(selfNames []string, minVolume int) *Ducker {
	if minVolume < 0 {
		minVolume = 0
	}
	if minVolume > 150 {
		minVolume = 150
	}
	return &Ducker{
		selfNames:   append([]string(nil), selfNames...),
		originalVol: make(map[int]int),
		minVolume:   minVolume,
	}
}

// Duck scales every foreign stream to current*factor (bounded below by
// minVolume), remembering the original levels. Idempotent while active.
func (d *Ducker) Duck(ctx context.Context, factor float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	streams, err := listPlaybackStreams(ctx)
	if err != nil {
		return fmt.Errorf("list playback streams: %w", err)
	}

	d.originalVol = make(map[int]int)
	for _, s := range streams {
		if d.isSelf(s) {
			continue
		}
		target := float64(s.Volume) * factor
		if target < float64(d.minVolume) {
			target = float64(d.minVolume)
		}
		d.originalVol[s.ID] = s.Volume
		if err := setStreamVolume(ctx, s.ID, int(math.Round(target))); err != nil {
			return err
		}
	}

	d.active = true
	return nil
}

// Restore returns every stream ducked earlier to its original volume.
// Streams that appeared after Duck are untouched.
func (d *Ducker) Restore(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	streams, err := listPlaybackStreams(ctx)
	if err != nil {
		return fmt.Errorf("list playback streams: %w", err)
	}

	for _, s := range streams {
		orig, ok := d.originalVol[s.ID]
		if !ok {
			continue
		}
		if err := setStreamVolume(ctx, s.ID, orig); err != nil {
			return err
		}
	}

	d.originalVol = make(map[int]int)
	d.active = false
	return nil
}

func (d *Ducker) isSelf(s playbackStream) bool {
	for _, name := range d.selfNames {
		if s.AppName == name {
			return true
		}
	}
	return false
}

func listPlaybackStreams(ctx context.Context) ([]playbackStream, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}

	parts := strings.Split(string(out), "Sink Input #")
	var res []playbackStream
	for i := 1; i < len(parts); i++ {
		block := parts[i]
		newline := strings.IndexByte(block, '\n')
		if newline <= 0 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(block[:newline]))
		if err != nil {
			continue
		}

		s := playbackStream{ID: id}
		for _, line := range strings.Split(block[newline+1:], "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) >= 2 {
					if v, err := strconv.Atoi(m[1]); err == nil {
						s.Volume = v
					}
				}
			}
			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				if parts := strings.SplitN(line, "\"", 3); len(parts) >= 2 {
					s.AppName = parts[1]
				}
			}
		}
		if s.Volume == 0 && s.AppName == "" {
			continue
		}
		res = append(res, s)
	}
	return res, nil
}

func setStreamVolume(ctx context.Context, id, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 150 {
		percent = 150
	}
	arg := fmt.Sprintf("%d%%", percent)
	if err := exec.CommandContext(ctx, "pactl", "set-sink-input-volume", strconv.Itoa(id), arg).Run(); err != nil {
		return fmt.Errorf("set volume id=%d: %w", id, err)
	}
	return nil
}
