// Package timing computes the playback offsets of a measure from its tempo.
//
// All functions are pure. A measure is four beats of four 16th-note steps.
package timing

import (
	"errors"
	"strconv"
	"time"

	"github.com/icco/rudiments/internal/pattern"
)

// DefaultTempo is the tempo used when none is given.
const DefaultTempo Tempo = 120

// referenceTempo is the tempo at which DelayFactor is exactly 1.
const referenceTempo = 120

// Tempo is the playback speed in beats per minute.
type Tempo uint16

// ErrZeroTempo is returned by Validate for a tempo of 0.
var ErrZeroTempo = errors.New("tempo must be greater than zero")

// Validate reports whether t can be used for playback.
func (t Tempo) Validate() error {
	if t == 0 {
		return ErrZeroTempo
	}
	return nil
}

func (t Tempo) String() string {
	return strconv.Itoa(int(t))
}

// MeasureDuration is the length of one 4-beat measure: 60 / (t / 4) seconds.
func MeasureDuration(t Tempo) time.Duration {
	return time.Duration(float64(time.Minute) * pattern.BeatsPerMeasure / float64(t))
}

// StepDuration is the length of one 16th-note step.
func StepDuration(t Tempo) time.Duration {
	return MeasureDuration(t) / pattern.StepsPerMeasure
}

// StepOffset is the trigger time of step i relative to the start of the measure.
func StepOffset(t Tempo, i int) time.Duration {
	return StepDuration(t) * time.Duration(i)
}

// DelayFactor is the tempo-dependent correction applied to the loop pad:
// 1 at 120 BPM, decreasing linearly as the tempo rises.
func DelayFactor(t Tempo) float64 {
	return 2 - float64(t)/referenceTempo
}

// PadDuration is the delay inserted before a looped measure so that the gap
// after its last hit lines up with the start of the next repetition.
// trailing is the trailing silence of the aggregate step sequence.
//
// The result is negative above 240 BPM when trailing > 0; see PadInverted.
func PadDuration(t Tempo, trailing int) time.Duration {
	return time.Duration(float64(StepDuration(t)) * DelayFactor(t) * float64(trailing))
}

// PadInverted reports whether DelayFactor is negative at t, which turns the
// loop pad into an advance.
func PadInverted(t Tempo) bool {
	return DelayFactor(t) < 0
}

// StepAt returns the step that is sounding elapsed time after the start of a
// measure, wrapping at the measure boundary. Negative elapsed times map to -1.
func StepAt(t Tempo, elapsed time.Duration) int {
	if elapsed < 0 {
		return -1
	}
	step := StepDuration(t)
	return int(elapsed/step) % pattern.StepsPerMeasure
}
