// Package drumerr defines the error kinds shared by the pattern, instrumentation
// and audio packages.
package drumerr

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is returned when a line of a structured file is malformed.
	ErrParse = errors.New("parse error")

	// ErrDuplicatePattern is returned when a pattern lists the same
	// instrument on more than one line.
	ErrDuplicatePattern = errors.New("duplicate pattern")

	// ErrDuplicateInstrument is returned when an instrumentation binds the
	// same instrument to more than one sample file.
	ErrDuplicateInstrument = errors.New("duplicate instrument")

	// ErrFileNotFound is returned when an input file or sample file is missing.
	ErrFileNotFound = errors.New("file does not exist")

	// ErrDecode is returned when a sample file cannot be decoded as audio.
	ErrDecode = errors.New("audio decoder error")

	// ErrDevice is returned when no audio output device can be opened.
	ErrDevice = errors.New("audio device error")
)

// LineError reports a problem with a single line of an input file.
type LineError struct {
	Kind error  // ErrParse, ErrDuplicatePattern or ErrDuplicateInstrument
	Num  int    // 1-based line number
	Line string // offending line text, or the instrument for duplicates
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%v on line %d: %q", e.Kind, e.Num, e.Line)
}

func (e *LineError) Unwrap() error { return e.Kind }

// Is treats a duplicate pattern line as a duplicate instrument.
func (e *LineError) Is(target error) bool {
	return e.Kind == ErrDuplicatePattern && target == ErrDuplicateInstrument
}

// PathError reports a missing file or directory.
type PathError struct {
	Kind error
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Path)
}

func (e *PathError) Unwrap() error { return e.Kind }

// AudioError reports a decoding or device failure from the playback backend.
type AudioError struct {
	Kind error
	Path string // empty for device errors
	Err  error
}

func (e *AudioError) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *AudioError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound is shorthand for a PathError of kind ErrFileNotFound.
func NotFound(path string) error {
	return &PathError{Kind: ErrFileNotFound, Path: path}
}
