// Package midiexport writes bound tracks as a Standard MIDI File so a pattern
// can be opened in a DAW.
package midiexport

import (
	"fmt"
	"io"
	"math"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/icco/rudiments/internal/instrumentation"
	"github.com/icco/rudiments/internal/pattern"
	"github.com/icco/rudiments/internal/timing"
	"github.com/icco/rudiments/internal/track"
)

const (
	ticksPerQuarterNote = 960 // Standard MIDI resolution
	ticksPerStep        = ticksPerQuarterNote / pattern.StepsPerBeat
	gateTicks           = ticksPerStep / 2
	maxMIDINote         = 127

	// DrumChannel is the General MIDI percussion channel (10, zero-based 9).
	DrumChannel = 9

	// FirstNote is the key of the first sample file, GM Bass Drum 1.
	FirstNote = 36
)

// Notes assigns one key per sample file, ascending from FirstNote in sorted
// sample file order.
func Notes(tracks track.Tracks) map[instrumentation.SampleFile]uint8 {
	notes := make(map[instrumentation.SampleFile]uint8, len(tracks))
	for i, sf := range tracks.SampleFiles() {
		notes[sf] = uint8(min(FirstNote+i, maxMIDINote)) //nolint:gosec // bounded by maxMIDINote
	}
	return notes
}

// Velocity maps an amplitude linearly onto 0..127.
func Velocity(a pattern.Amplitude) uint8 {
	return uint8(math.Round(a.Value() * 127))
}

// Write encodes a one-measure SMF: a tempo track followed by one track per
// sample file on the percussion channel.
func Write(w io.Writer, tracks track.Tracks, tempo timing.Tempo) error {
	if err := tempo.Validate(); err != nil {
		return err
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerQuarterNote)

	// Track 0: Tempo track
	var track0 smf.Track
	track0.Add(0, smf.MetaMeter(pattern.BeatsPerMeasure, 4))
	track0.Add(0, smf.MetaTempo(float64(tempo)))
	track0.Close(0)
	if err := sm.Add(track0); err != nil {
		return fmt.Errorf("error adding tempo track: %w", err)
	}

	notes := Notes(tracks)
	for _, sf := range tracks.SampleFiles() {
		t := tracks[sf]
		if err := sm.Add(encodeTrack(string(sf), t, notes[sf])); err != nil {
			return fmt.Errorf("error adding track %s: %w", sf, err)
		}
	}

	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}

// WriteFile writes the SMF to path, replacing any existing file.
func WriteFile(path string, tracks track.Tracks, tempo timing.Tempo) error {
	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("error creating MIDI file: %w", err)
	}
	if err := Write(f, tracks, tempo); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func encodeTrack(name string, t track.Track, note uint8) smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(name))

	vel := Velocity(t.Amplitude)
	var lastTick uint32
	if vel > 0 {
		for _, step := range t.Steps.Indices() {
			pos := uint32(step) * ticksPerStep //nolint:gosec // step is bounded by StepsPerMeasure
			tr.Add(pos-lastTick, midi.NoteOn(DrumChannel, note, vel))
			tr.Add(gateTicks, midi.NoteOff(DrumChannel, note))
			lastTick = pos + gateTicks
		}
	}

	endTick := uint32(pattern.StepsPerMeasure * ticksPerStep)
	tr.Close(endTick - lastTick)
	return tr
}
