package machine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/icco/rudiments/internal/audio"
	"github.com/icco/rudiments/internal/drumerr"
	"github.com/icco/rudiments/internal/instrumentation"
	"github.com/icco/rudiments/internal/pattern"
	"github.com/icco/rudiments/internal/timing"
)

const testRate = beep.SampleRate(1000)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeSamples(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	click := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.5, 0.5}
		}
		return len(samples), true
	})
	for _, name := range names {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		err = wav.Encode(f, beep.Take(20, click), audio.Format(testRate))
		f.Close()
		if err != nil {
			t.Fatalf("Error encoding %s: %v", name, err)
		}
	}
	return dir
}

func request(t *testing.T, pat, ins, dir string, tempo timing.Tempo) Request {
	t.Helper()
	p, err := pattern.Parse(strings.NewReader(pat))
	if err != nil {
		t.Fatalf("Error parsing pattern: %v", err)
	}
	in, err := instrumentation.Parse(strings.NewReader(ins))
	if err != nil {
		t.Fatalf("Error parsing instrumentation: %v", err)
	}
	return Request{Pattern: p, Instrumentation: in, SamplesDir: dir, Tempo: tempo}
}

const standard = `hi-hat |x-x-|x-x-|x-x-|x-x-| 0.5
snare  |----|x---|----|x---|
kick   |x---|----|x---|----|
`

const kit = "hi-hat hh.wav\nsnare snare.wav\nkick kick.wav\n"

func TestComposeStandardGroove(t *testing.T) {
	dir := writeSamples(t, "hh.wav", "snare.wav", "kick.wav")
	req := request(t, standard, kit, dir, 120)

	s, err := Compose(req, Options{SampleRate: testRate, Logger: quiet})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := s.Mix.Len(); got != 12 {
		t.Errorf("Expected 12 voices, got %d", got)
	}
	if got := s.Measure(); got != 2*time.Second {
		t.Errorf("Expected a 2s measure, got %v", got)
	}
	if got := s.Pad(); got != 125*time.Millisecond {
		t.Errorf("Expected a 125ms pad, got %v", got)
	}
	// The last kick hit lands at step 8.
	if got := s.Mix.Samples(); got < 1000+20 {
		t.Errorf("Expected the mix to reach past step 8, got %d samples", got)
	}
}

func TestComposeDecodesEachSampleFileOnce(t *testing.T) {
	dir := writeSamples(t, "tom.wav")
	req := request(t,
		"tom-1 |x---|----|----|----|\ntom-2 |----|----|x---|----| 0.3\n",
		"tom-1 tom.wav\ntom-2 tom.wav\n",
		dir, 120)

	var mu sync.Mutex
	calls := map[string]int{}
	decode := func(path string, sr beep.SampleRate) (*beep.Buffer, error) {
		mu.Lock()
		calls[filepath.Base(path)]++
		mu.Unlock()
		return audio.Decode(path, sr)
	}

	s, err := Compose(req, Options{SampleRate: testRate, Decode: decode, Logger: quiet})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if calls["tom.wav"] != 1 {
		t.Errorf("Expected tom.wav decoded once, got %d", calls["tom.wav"])
	}
	if s.Mix.Len() != 2 {
		t.Errorf("Expected 2 voices, got %d", s.Mix.Len())
	}
	if got := s.Tracks["tom.wav"].Amplitude; got != 0.3 {
		t.Errorf("Expected amplitude 0.3, got %v", got)
	}
}

func TestComposeMissingSample(t *testing.T) {
	dir := writeSamples(t, "hh.wav", "snare.wav", "kick.wav")
	req := request(t, standard, kit+"cowbell bell.wav\n", dir, 120)

	_, err := Compose(req, Options{SampleRate: testRate, Logger: quiet})
	if !errors.Is(err, drumerr.ErrFileNotFound) {
		t.Fatalf("Expected file not found, got %v", err)
	}
	var pe *drumerr.PathError
	if !errors.As(err, &pe) || filepath.Base(pe.Path) != "bell.wav" {
		t.Errorf("Expected the missing sample in the error, got %v", err)
	}
}

func TestComposeDecodeFailure(t *testing.T) {
	dir := writeSamples(t, "hh.wav", "snare.wav")
	if err := os.WriteFile(filepath.Join(dir, "kick.wav"), []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}
	req := request(t, standard, kit, dir, 120)

	if _, err := Compose(req, Options{SampleRate: testRate, Logger: quiet}); !errors.Is(err, drumerr.ErrDecode) {
		t.Errorf("Expected decoder error, got %v", err)
	}
}

func TestBindRejectsZeroTempo(t *testing.T) {
	req := request(t, standard, kit, t.TempDir(), 0)
	if _, _, err := Bind(req); !errors.Is(err, timing.ErrZeroTempo) {
		t.Errorf("Expected zero tempo error, got %v", err)
	}
}

type fakeOutput struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	played int
}

func (f *fakeOutput) Play(beep.Streamer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played++
}

func (f *fakeOutput) SampleRate() beep.SampleRate { return f.rate }

func TestPlay(t *testing.T) {
	dir := writeSamples(t, "hh.wav", "snare.wav", "kick.wav")
	// 60 ms measures keep the test fast.
	req := request(t, standard, kit, dir, 4000)
	s, err := Compose(req, Options{SampleRate: testRate, Logger: quiet})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	out := &fakeOutput{rate: testRate}
	if err := Play(context.Background(), out, s, false, quiet); err != nil {
		t.Fatalf("Play once: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := Play(ctx, out, s, true, quiet); err != nil {
		t.Fatalf("Play repeat: %v", err)
	}
	if out.played != 2 {
		t.Errorf("Expected 2 streamers played, got %d", out.played)
	}

	if err := Play(context.Background(), &fakeOutput{rate: 44100}, s, false, quiet); err == nil {
		t.Error("Expected a sample rate mismatch error")
	}
}
