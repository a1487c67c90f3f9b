package pattern

import (
	"fmt"
	"strconv"
)

// Amplitude is a track's relative loudness in [0, 1].
type Amplitude float64

// FullVolume is the amplitude used when a track does not specify one.
const FullVolume Amplitude = 1.0

// NewAmplitude validates v. Values outside [0, 1] are rejected, not clamped.
func NewAmplitude(v float64) (Amplitude, error) {
	if !(v >= 0 && v <= 1) {
		return 0, fmt.Errorf("amplitude %v out of range [0,1]", v)
	}
	return Amplitude(v), nil
}

// Min returns the quieter of a and b.
func Min(a, b Amplitude) Amplitude {
	if b < a {
		return b
	}
	return a
}

// Value returns the amplitude as a plain float.
func (a Amplitude) Value() float64 {
	return float64(a)
}

func (a Amplitude) String() string {
	return strconv.FormatFloat(float64(a), 'g', -1, 64)
}
