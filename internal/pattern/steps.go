package pattern

import "strings"

const (
	// StepsPerMeasure is the number of 16th-note steps in a measure.
	StepsPerMeasure = 16

	// BeatsPerMeasure is the number of beats in a measure (4/4 time).
	BeatsPerMeasure = 4

	// StepsPerBeat is the number of steps between two separators.
	StepsPerBeat = StepsPerMeasure / BeatsPerMeasure
)

// Characters of the step notation.
const (
	StepPlay   = 'x'
	StepSilent = '-'
	Separator  = '|'
)

// Steps is the step sequence of a single measure. Index 0 is the first
// 16th note of the measure.
type Steps [StepsPerMeasure]bool

// Zeros returns an entirely silent sequence.
func Zeros() Steps {
	return Steps{}
}

// StepsOf returns a sequence that plays on the given step indices.
// Indices outside the measure are ignored.
func StepsOf(indices ...int) Steps {
	var s Steps
	for _, i := range indices {
		if i >= 0 && i < StepsPerMeasure {
			s[i] = true
		}
	}
	return s
}

// Union sets every step of s that plays in other.
func (s *Steps) Union(other Steps) {
	for i, on := range other {
		if on {
			s[i] = true
		}
	}
}

// TrailingSilentSteps returns the number of silent steps at the end of the
// sequence: 0 if the last step plays, StepsPerMeasure if none do.
func (s Steps) TrailingSilentSteps() int {
	n := 0
	for i := StepsPerMeasure - 1; i >= 0 && !s[i]; i-- {
		n++
	}
	return n
}

// Indices returns the indices of the playing steps in ascending order.
func (s Steps) Indices() []int {
	var out []int
	for i, on := range s {
		if on {
			out = append(out, i)
		}
	}
	return out
}

// IsSilent reports whether no step plays.
func (s Steps) IsSilent() bool {
	return s == Steps{}
}

// String renders the sequence in pattern file notation, e.g. |x---|x---|x---|x---|.
func (s Steps) String() string {
	var b strings.Builder
	b.WriteByte(Separator)
	for i, on := range s {
		if on {
			b.WriteByte(StepPlay)
		} else {
			b.WriteByte(StepSilent)
		}
		if (i+1)%StepsPerBeat == 0 {
			b.WriteByte(Separator)
		}
	}
	return b.String()
}
