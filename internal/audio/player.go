package audio

import (
	"context"
	"time"

	"github.com/gopxl/beep"
)

// Output is a sink that plays a streamer in the background.
type Output interface {
	Play(s beep.Streamer)
	SampleRate() beep.SampleRate
}

// Player renders mixes to an Output.
type Player struct {
	Out Output
}

// PlayOnce plays the mix a single time and blocks for one measure.
func (p *Player) PlayOnce(ctx context.Context, m *Mix, measure time.Duration) error {
	p.Out.Play(Once(m))

	timer := time.NewTimer(measure)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PlayRepeating loops the padded, truncated mix until ctx is cancelled.
func (p *Player) PlayRepeating(ctx context.Context, m *Mix, pad, measure time.Duration) error {
	p.Out.Play(Repeating(m, pad, measure))
	<-ctx.Done()
	return nil
}
