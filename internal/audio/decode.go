package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/icco/rudiments/internal/drumerr"
)

// resampleQuality is the beep.Resample quality used for samples whose rate
// differs from the mix rate.
const resampleQuality = 4

// Decoder loads a sample file into memory at sample rate sr.
type Decoder func(path string, sr beep.SampleRate) (*beep.Buffer, error)

// Extensions lists the sample file extensions Decode understands.
var Extensions = []string{".wav", ".mp3", ".flac", ".ogg", ".oga"}

// Decode reads the sample file at path into a buffer at sample rate sr.
// The decoder is chosen by file extension: WAV, MP3, FLAC or Ogg Vorbis.
func Decode(path string, sr beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path) //nolint:gosec // path was resolved against the samples directory
	if err != nil {
		return nil, fmt.Errorf("error opening sample: %w", err)
	}
	defer f.Close()

	s, format, err := decodeStream(f, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, &drumerr.AudioError{Kind: drumerr.ErrDecode, Path: path, Err: err}
	}
	defer s.Close()

	buf, err := bufferStream(s, format, sr)
	if err != nil {
		return nil, &drumerr.AudioError{Kind: drumerr.ErrDecode, Path: path, Err: err}
	}
	return buf, nil
}

func decodeStream(f *os.File, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported sample format %q, want one of %s", ext, strings.Join(Extensions, " "))
	}
}

// bufferStream drains s into a buffer, resampling from format's rate to sr.
func bufferStream(s beep.Streamer, format beep.Format, sr beep.SampleRate) (*beep.Buffer, error) {
	var src beep.Streamer = s
	if format.SampleRate != sr {
		src = beep.Resample(resampleQuality, format.SampleRate, sr, s)
	}

	buf := beep.NewBuffer(Format(sr))
	buf.Append(src)
	if err := s.Err(); err != nil {
		return nil, err
	}
	return buf, nil
}
