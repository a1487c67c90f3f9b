package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Once returns the unpadded mix, streamed a single time.
func Once(m *Mix) beep.Streamer {
	return m.Streamer()
}

// Repeating loops one measure window of the mix forever. See Window.
func Repeating(m *Mix, pad, measure time.Duration) beep.Streamer {
	w := Window(m, pad, measure)
	return beep.Loop(-1, w.Streamer(0, w.Len()))
}

// Window renders exactly one measure of the mix, delayed at its start by pad.
// Audio past the end of the measure is cut off and a mix shorter than the
// measure is filled with silence, so repeating the window is period-exact.
// A negative pad skips that much audio from the start of the mix instead.
func Window(m *Mix, pad, measure time.Duration) *beep.Buffer {
	sr := m.SampleRate()
	length := max(sr.N(measure), 1)

	src := m.Streamer()
	if pad >= 0 {
		src = beep.Seq(beep.Silence(sr.N(pad)), src)
	} else {
		skip(src, sr.N(-pad))
	}

	buf := beep.NewBuffer(Format(sr))
	buf.Append(beep.Take(length, beep.Seq(src, beep.Silence(-1))))
	return buf
}

// skip discards the first n samples of s.
func skip(s beep.Streamer, n int) {
	var tmp [512][2]float64
	for n > 0 {
		chunk := min(n, len(tmp))
		got, ok := s.Stream(tmp[:chunk])
		n -= got
		if !ok {
			return
		}
	}
}
