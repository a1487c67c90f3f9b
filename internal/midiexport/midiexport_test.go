package midiexport

import (
	"bytes"
	"math"
	"path/filepath"
	"slices"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/icco/rudiments/internal/instrumentation"
	"github.com/icco/rudiments/internal/pattern"
	"github.com/icco/rudiments/internal/track"
)

func standardTracks() track.Tracks {
	return track.Tracks{
		"hh.wav":    {Steps: pattern.StepsOf(0, 2, 4, 6, 8, 10, 12, 14), Amplitude: 0.5},
		"kick.wav":  {Steps: pattern.StepsOf(0, 8), Amplitude: 1},
		"snare.wav": {Steps: pattern.StepsOf(4, 12), Amplitude: 1},
		"bell.wav":  track.Identity(),
	}
}

type hit struct {
	step     int
	key, vel uint8
}

func readHits(t *testing.T, tr smf.Track) []hit {
	t.Helper()
	var hits []hit
	var tick uint32
	for _, ev := range tr {
		tick += ev.Delta
		var ch, key, vel uint8
		if ev.Message.GetNoteOn(&ch, &key, &vel) {
			if ch != DrumChannel {
				t.Errorf("Expected channel %d, got %d", DrumChannel, ch)
			}
			if tick%ticksPerStep != 0 {
				t.Errorf("Note at tick %d is not on a step boundary", tick)
			}
			hits = append(hits, hit{step: int(tick / ticksPerStep), key: key, vel: vel})
		}
	}
	if tick != pattern.StepsPerMeasure*ticksPerStep {
		t.Errorf("Expected track to end at tick %d, got %d", pattern.StepsPerMeasure*ticksPerStep, tick)
	}
	return hits
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standard.mid")
	tracks := standardTracks()
	if err := WriteFile(path, tracks, 97); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	rd, err := smf.ReadFile(path)
	if err != nil {
		t.Fatalf("Error reading MIDI file: %v", err)
	}

	tempoChanges := rd.TempoChanges()
	if len(tempoChanges) == 0 || math.Abs(tempoChanges[0].BPM-97) > 0.01 {
		t.Fatalf("Expected tempo 97, got %v", tempoChanges)
	}

	if len(rd.Tracks) != 1+len(tracks) {
		t.Fatalf("Expected %d tracks, got %d", 1+len(tracks), len(rd.Tracks))
	}

	notes := Notes(tracks)
	for i, sf := range tracks.SampleFiles() {
		hits := readHits(t, rd.Tracks[i+1])
		want := tracks[sf]

		var steps []int
		for _, h := range hits {
			steps = append(steps, h.step)
			if h.key != notes[sf] || h.vel != Velocity(want.Amplitude) {
				t.Errorf("%s: unexpected note %d velocity %d", sf, h.key, h.vel)
			}
		}
		if !slices.Equal(steps, want.Steps.Indices()) {
			t.Errorf("%s: expected steps %v, got %v", sf, want.Steps.Indices(), steps)
		}
	}
}

func TestWriteSkipsSilentTracks(t *testing.T) {
	var buf bytes.Buffer
	tracks := track.Tracks{"kick.wav": {Steps: pattern.StepsOf(0, 8), Amplitude: 0}}
	if err := Write(&buf, tracks, 120); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rd, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Error reading MIDI: %v", err)
	}
	if hits := readHits(t, rd.Tracks[1]); len(hits) != 0 {
		t.Errorf("Expected no notes at zero amplitude, got %v", hits)
	}
}

func TestWriteRejectsZeroTempo(t *testing.T) {
	if err := Write(&bytes.Buffer{}, standardTracks(), 0); err == nil {
		t.Error("Expected an error for tempo 0")
	}
}

func TestNotesAndVelocity(t *testing.T) {
	notes := Notes(standardTracks())
	want := map[instrumentation.SampleFile]uint8{
		"bell.wav":  36,
		"hh.wav":    37,
		"kick.wav":  38,
		"snare.wav": 39,
	}
	for sf, n := range want {
		if notes[sf] != n {
			t.Errorf("%s: expected note %d, got %d", sf, n, notes[sf])
		}
	}

	tests := []struct {
		a    pattern.Amplitude
		want uint8
	}{
		{0, 0},
		{0.5, 64},
		{1, 127},
	}
	for _, tt := range tests {
		if got := Velocity(tt.a); got != tt.want {
			t.Errorf("Velocity(%v): expected %d, got %d", tt.a, tt.want, got)
		}
	}
}
