package listen

import (
	"context"
	log "log/slog"

	"voicecart/internal/audio"
)

// duckFactor scales foreign playback volume while the microphone is open.
const duckFactor = 0.3

// Ducked wraps a listener so desktop playback is lowered for the duration of
// each attempt and restored afterwards. Ducking failures (no pactl, no
// PulseAudio) are logged and ignored; listening proceeds over the music.
type Ducked struct {
	Inner interface {
		Listen(ctx context.Context) (string, error)
	}
	Ducker *audio.Ducker
}

func (d *Ducked) Listen(ctx context.Context) (string, error) {
	if err := d.Ducker.Duck(ctx, duckFactor); err != nil {
		log.Debug("duck playback", "err", err)
	}
	defer func() {
		if err := d.Ducker.Restore(context.WithoutCancel(ctx)); err != nil {
			log.Debug("restore playback", "err", err)
		}
	}()

	return d.Inner.Listen(ctx)
}
