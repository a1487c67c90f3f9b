// Package machine binds a pattern to samples, schedules every step into a mix
// and plays it.
package machine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gopxl/beep"

	"github.com/icco/rudiments/internal/audio"
	"github.com/icco/rudiments/internal/instrumentation"
	"github.com/icco/rudiments/internal/pattern"
	"github.com/icco/rudiments/internal/timing"
	"github.com/icco/rudiments/internal/track"
)

// Request describes one playback.
type Request struct {
	Pattern         *pattern.Pattern
	Instrumentation *instrumentation.Instrumentation
	SamplesDir      string
	Tempo           timing.Tempo
}

// Options configures Compose.
type Options struct {
	SampleRate beep.SampleRate // defaults to audio.DefaultSampleRate
	Decode     audio.Decoder   // defaults to audio.Decode
	Logger     *slog.Logger    // defaults to slog.Default()
}

// Score is a pattern bound to its samples and scheduled into a mix.
type Score struct {
	Tempo     timing.Tempo
	Tracks    track.Tracks
	Aggregate pattern.Steps
	Mix       *audio.Mix
}

// Measure returns the length of one measure at the score's tempo.
func (s *Score) Measure() time.Duration {
	return timing.MeasureDuration(s.Tempo)
}

// Pad returns the loop pad derived from the aggregate trailing silence.
func (s *Score) Pad() time.Duration {
	return timing.PadDuration(s.Tempo, s.Aggregate.TrailingSilentSteps())
}

// Bind validates the request and reduces it to tracks without touching any
// sample file.
func Bind(req Request) (track.Tracks, pattern.Steps, error) {
	if err := req.Tempo.Validate(); err != nil {
		return nil, pattern.Steps{}, err
	}
	tracks, aggregate := track.Bind(req.Pattern, req.Instrumentation)
	return tracks, aggregate, nil
}

// Compose binds the request's tracks, resolves and decodes every sample file
// and schedules one voice per playing step. Any failure aborts before a
// single voice is returned.
func Compose(req Request, opts Options) (*Score, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	tracks, aggregate, err := Bind(req)
	if err != nil {
		return nil, err
	}
	log.Debug("bound tracks",
		"pattern_tracks", req.Pattern.Len(),
		"sample_files", len(tracks),
		"aggregate", aggregate.String())

	mix := audio.NewMix(opts.SampleRate)
	for _, sf := range tracks.SampleFiles() {
		t := tracks[sf]
		path, err := sf.Resolve(req.SamplesDir)
		if err != nil {
			return nil, err
		}
		sample, err := opts.Decode(path, opts.SampleRate)
		if err != nil {
			return nil, err
		}

		for _, i := range t.Steps.Indices() {
			mix.Schedule(sample, t.Amplitude.Value(), timing.StepOffset(req.Tempo, i))
		}
		log.Debug("scheduled track",
			"sample", path,
			"steps", t.Steps.String(),
			"amplitude", t.Amplitude.Value(),
			"length", opts.SampleRate.D(sample.Len()))
	}

	return &Score{
		Tempo:     req.Tempo,
		Tracks:    tracks,
		Aggregate: aggregate,
		Mix:       mix,
	}, nil
}

// Play renders the score to out, once or on repeat. Repeat playback blocks
// until ctx is cancelled.
func Play(ctx context.Context, out audio.Output, s *Score, repeat bool, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	if out.SampleRate() != s.Mix.SampleRate() {
		return fmt.Errorf("output runs at %d Hz but the mix was built at %d Hz",
			out.SampleRate(), s.Mix.SampleRate())
	}

	p := &audio.Player{Out: out}
	log.Debug("playing",
		"tempo", s.Tempo,
		"measure", s.Measure(),
		"step", timing.StepDuration(s.Tempo),
		"voices", s.Mix.Len(),
		"mix_length", s.Mix.SampleRate().D(s.Mix.Samples()),
		"repeat", repeat)

	if !repeat {
		return p.PlayOnce(ctx, s.Mix, s.Measure())
	}

	if timing.PadInverted(s.Tempo) {
		log.Warn("tempo above 240 BPM inverts the loop pad; the measure start is advanced instead of delayed",
			"tempo", s.Tempo, "factor", timing.DelayFactor(s.Tempo))
	}
	log.Debug("loop pad",
		"trailing_silent_steps", s.Aggregate.TrailingSilentSteps(),
		"factor", timing.DelayFactor(s.Tempo),
		"pad", s.Pad())
	return p.PlayRepeating(ctx, s.Mix, s.Pad(), s.Measure())
}

func (o Options) withDefaults() Options {
	if o.SampleRate == 0 {
		o.SampleRate = audio.DefaultSampleRate
	}
	if o.Decode == nil {
		o.Decode = audio.Decode
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
