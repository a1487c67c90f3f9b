// Package audio decodes samples, schedules them into a mix and renders the
// mix to an output device.
package audio

import (
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/gopxl/beep"

	"github.com/icco/rudiments/internal/drumerr"
)

const (
	// DefaultSampleRate is the rate samples are resampled to before mixing.
	DefaultSampleRate = beep.SampleRate(44100)

	channelCount = 2 // stereo
	bitDepth     = 2 // 16-bit
)

// Format is the sample format of every mix.
func Format(sr beep.SampleRate) beep.Format {
	return beep.Format{SampleRate: sr, NumChannels: channelCount, Precision: bitDepth}
}

// Device plays streamers on the default system audio output.
type Device struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	sampleRate beep.SampleRate
}

// OpenDefaultDevice opens the default output device at sample rate sr.
func OpenDefaultDevice(sr beep.SampleRate) (*Device, error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(sr),
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, &drumerr.AudioError{Kind: drumerr.ErrDevice, Err: err}
	}
	<-readyChan

	return &Device{otoCtx: otoCtx, sampleRate: sr}, nil
}

// SampleRate returns the rate the device was opened at.
func (d *Device) SampleRate() beep.SampleRate {
	return d.sampleRate
}

// Play starts streaming s, replacing anything already playing. It returns
// immediately; oto pulls samples from its own goroutine.
func (d *Device) Play(s beep.Streamer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player != nil {
		d.player.Pause()
	}
	d.player = d.otoCtx.NewPlayer(&streamReader{stream: s})
	d.player.Play()
}

// Close stops playback.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player != nil {
		d.player.Pause()
		d.player = nil
	}
	// As of oto v3.4, player.Close() is deprecated and no longer needed.
	return d.otoCtx.Err()
}

// streamReader adapts a beep.Streamer to the io.Reader oto consumes.
type streamReader struct {
	stream  beep.Streamer
	scratch [][2]float64
	done    bool
}

func (r *streamReader) Read(buf []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}

	numSamples := len(buf) / (channelCount * bitDepth)
	if cap(r.scratch) < numSamples {
		r.scratch = make([][2]float64, numSamples)
	}
	samples := r.scratch[:numSamples]

	n, ok := r.stream.Stream(samples)
	if !ok {
		r.done = true
		if n == 0 {
			return 0, io.EOF
		}
	}

	for i := 0; i < n; i++ {
		idx := i * channelCount * bitDepth
		for ch := 0; ch < channelCount; ch++ {
			v := toInt16(samples[i][ch])
			buf[idx+ch*bitDepth] = byte(v)
			buf[idx+ch*bitDepth+1] = byte(v >> 8)
		}
	}
	return n * channelCount * bitDepth, nil
}

// toInt16 clips a sample to [-1, 1] and converts it to 16-bit.
func toInt16(v float64) int16 {
	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	return int16(v * 32767)
}
