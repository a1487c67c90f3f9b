// Package pattern parses pattern files.
//
// Each line of a pattern file is a track: an instrument name, a 16-step
// sequence and an optional amplitude in [0,1]. Each sequence is a single
// measure in 4/4 time divided into 16th note steps, `x` for play and `-` for
// silent, with `|` between beats. A track without an amplitude plays at full
// volume. An instrument may appear only once per pattern.
//
//	hi-hat |x-x-|x-x-|x-x-|x-x-| 0.5
//	snare  |----|x---|----|x---|
//	kick   |x---|----|x---|----|
package pattern

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/icco/rudiments/internal/drumerr"
	"github.com/icco/rudiments/internal/scan"
)

// Instrument names a track of a pattern. Names are case-sensitive.
type Instrument string

// Entry is the step sequence and amplitude of one instrument.
type Entry struct {
	Steps     Steps
	Amplitude Amplitude
}

// Pattern maps instruments to their entries. It is immutable once parsed.
type Pattern struct {
	entries map[Instrument]Entry
}

// ParseFile parses the pattern file at path.
func ParseFile(path string) (*Pattern, error) {
	f, err := scan.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse reads a pattern from r. The first malformed or duplicate line aborts
// parsing.
func Parse(r io.Reader) (*Pattern, error) {
	p := &Pattern{entries: make(map[Instrument]Entry)}
	err := scan.Lines(r, func(num int, line string) error {
		rec, ok := parseTrack(line)
		if !ok {
			return &drumerr.LineError{Kind: drumerr.ErrParse, Num: num, Line: line}
		}
		if _, dup := p.entries[rec.instrument]; dup {
			return &drumerr.LineError{Kind: drumerr.ErrDuplicatePattern, Num: num, Line: line}
		}
		p.entries[rec.instrument] = rec.entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the entry for instrument i. A missing entry means the
// instrument is not used by this pattern.
func (p *Pattern) Get(i Instrument) (Entry, bool) {
	e, ok := p.entries[i]
	return e, ok
}

// Len returns the number of tracks.
func (p *Pattern) Len() int {
	return len(p.entries)
}

// Instruments returns the instrument names in sorted order.
func (p *Pattern) Instruments() []Instrument {
	return slices.Sorted(maps.Keys(p.entries))
}

func (p *Pattern) String() string {
	var b strings.Builder
	for _, i := range p.Instruments() {
		e := p.entries[i]
		fmt.Fprintf(&b, "%s %s %s\n", i, e.Steps, e.Amplitude)
	}
	return b.String()
}

// ParseSteps decodes a step block such as |x---|x---|x---|x---|.
func ParseSteps(s string) (Steps, error) {
	bits, c, ok := stepBlock(scan.New(s))
	if !ok || !c.AtEnd() {
		return Steps{}, fmt.Errorf("invalid step block %q", s)
	}
	var steps Steps
	copy(steps[:], bits)
	return steps, nil
}

type track struct {
	instrument Instrument
	entry      Entry
}

// stepBlock folds play, silent and separator characters into a sequence,
// accepting it only when exactly StepsPerMeasure steps were read.
var stepBlock = scan.Verify(
	scan.Fold1(
		scan.Char(string([]byte{StepPlay, StepSilent, Separator})),
		func() []bool { return make([]bool, 0, StepsPerMeasure) },
		func(acc []bool, ch byte) []bool {
			switch ch {
			case StepPlay:
				return append(acc, true)
			case StepSilent:
				return append(acc, false)
			}
			return acc
		},
	),
	func(v []bool) bool { return len(v) == StepsPerMeasure },
)

// amplitude parses an optional amplitude, rejecting present values outside [0,1].
var amplitude = scan.Verify(
	scan.Optional(scan.Float),
	func(m scan.Maybe[float64]) bool {
		if !m.Ok {
			return true
		}
		_, err := NewAmplitude(m.Value)
		return err == nil
	},
)

func parseTrack(line string) (track, bool) {
	c := scan.New(line)
	_, c, _ = scan.Spaces(c)
	name, c, ok := scan.Token(c)
	if !ok {
		return track{}, false
	}
	if _, c, ok = scan.Spaces1(c); !ok {
		return track{}, false
	}
	bits, c, ok := stepBlock(c)
	if !ok {
		return track{}, false
	}
	_, c, _ = scan.Spaces(c)
	amp, c, ok := amplitude(c)
	if !ok {
		return track{}, false
	}
	_, c, _ = scan.Spaces(c)
	if _, _, ok = scan.End(c); !ok {
		return track{}, false
	}

	var steps Steps
	copy(steps[:], bits)
	a := FullVolume
	if amp.Ok {
		a = Amplitude(amp.Value)
	}
	return track{
		instrument: Instrument(name),
		entry:      Entry{Steps: steps, Amplitude: a},
	}, true
}
