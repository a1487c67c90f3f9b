package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// voice is one scheduled trigger of a sample.
type voice struct {
	sample    *beep.Buffer
	amplitude float64
	delay     time.Duration
}

// Mix accumulates delayed, amplitude-scaled copies of decoded samples.
type Mix struct {
	sampleRate beep.SampleRate
	voices     []voice
}

// NewMix returns an empty mix at sample rate sr.
func NewMix(sr beep.SampleRate) *Mix {
	return &Mix{sampleRate: sr}
}

// SampleRate returns the rate of the mix.
func (m *Mix) SampleRate() beep.SampleRate {
	return m.sampleRate
}

// Schedule adds one copy of sample, scaled linearly by amplitude and starting
// delay after the beginning of the mix.
func (m *Mix) Schedule(sample *beep.Buffer, amplitude float64, delay time.Duration) {
	m.voices = append(m.voices, voice{sample: sample, amplitude: amplitude, delay: delay})
}

// Len returns the number of scheduled voices.
func (m *Mix) Len() int {
	return len(m.voices)
}

// Streamer returns a fresh streamer of the whole mix. It ends once the last
// voice has finished.
func (m *Mix) Streamer() beep.Streamer {
	streams := make([]beep.Streamer, 0, len(m.voices))
	for _, v := range m.voices {
		var s beep.Streamer = &effects.Gain{
			Streamer: v.sample.Streamer(0, v.sample.Len()),
			Gain:     v.amplitude - 1,
		}
		if n := m.sampleRate.N(v.delay); n > 0 {
			s = beep.Seq(beep.Silence(n), s)
		}
		streams = append(streams, s)
	}
	return beep.Mix(streams...)
}

// Samples returns the length of the mix in samples.
func (m *Mix) Samples() int {
	longest := 0
	for _, v := range m.voices {
		if end := m.sampleRate.N(v.delay) + v.sample.Len(); end > longest {
			longest = end
		}
	}
	return longest
}
