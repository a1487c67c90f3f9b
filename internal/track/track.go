// Package track binds a pattern's step sequences to sample files.
//
// Instruments bound to the same sample file are reduced to a single track:
// their step sequences are unioned and the quietest amplitude wins. Both
// operations are commutative, so the result does not depend on the order in
// which instruments are visited.
package track

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/icco/rudiments/internal/instrumentation"
	"github.com/icco/rudiments/internal/pattern"
)

// Track is the reduced trigger schedule and loudness of one sample file.
type Track struct {
	Steps     pattern.Steps
	Amplitude pattern.Amplitude
}

// Identity is the neutral track: silent at full volume.
func Identity() Track {
	return Track{Steps: pattern.Zeros(), Amplitude: pattern.FullVolume}
}

// Combine merges two tracks by step union and amplitude minimum.
func (t Track) Combine(other Track) Track {
	steps := t.Steps
	steps.Union(other.Steps)
	return Track{Steps: steps, Amplitude: pattern.Min(t.Amplitude, other.Amplitude)}
}

// Fold reduces ts with Combine, starting from Identity.
func Fold(ts ...Track) Track {
	acc := Identity()
	for _, t := range ts {
		acc = acc.Combine(t)
	}
	return acc
}

// Tracks maps each sample file to its reduced track.
type Tracks map[instrumentation.SampleFile]Track

// Bind reduces the pattern's entries per sample file of the instrumentation.
// Instruments that the pattern does not use contribute nothing. The returned
// aggregate is the union of every contributing step sequence.
func Bind(p *pattern.Pattern, in *instrumentation.Instrumentation) (Tracks, pattern.Steps) {
	tracks := make(Tracks, in.Len())
	var used []Track

	for _, sf := range in.SampleFiles() {
		var members []Track
		for _, i := range in.Instruments(sf) {
			e, ok := p.Get(i)
			if !ok {
				continue
			}
			members = append(members, Track(e))
		}
		tracks[sf] = Fold(members...)
		used = append(used, members...)
	}

	return tracks, Fold(used...).Steps
}

func (ts Tracks) String() string {
	var b strings.Builder
	for _, sf := range ts.SampleFiles() {
		t := ts[sf]
		fmt.Fprintf(&b, "%s %s %s\n", sf, t.Steps, t.Amplitude)
	}
	return b.String()
}

// SampleFiles returns the sample files of ts in sorted order.
func (ts Tracks) SampleFiles() []instrumentation.SampleFile {
	return slices.Sorted(maps.Keys(ts))
}
