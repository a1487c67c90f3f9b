// Package instrumentation parses instrumentation files, which bind the
// instruments of a pattern to audio sample files.
//
// Each line holds an instrument name and a sample file name. An instrument
// may be bound only once, but a sample file may serve several instruments:
//
//	hi-hat hh.wav
//	tom-1  tom.wav
//	tom-2  tom.wav
//	snare  snare.wav
//	kick   kick.wav
package instrumentation

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/icco/rudiments/internal/drumerr"
	"github.com/icco/rudiments/internal/pattern"
	"github.com/icco/rudiments/internal/scan"
)

// SampleFile is the path of an audio sample relative to a samples directory.
type SampleFile string

// Resolve joins the sample file onto root. root must be an existing directory
// and the result an existing regular file.
func (sf SampleFile) Resolve(root string) (string, error) {
	p := filepath.Join(root, string(sf))

	dir, err := os.Stat(root)
	if err != nil || !dir.IsDir() {
		return "", drumerr.NotFound(p)
	}
	file, err := os.Stat(p)
	if err != nil || !file.Mode().IsRegular() {
		return "", drumerr.NotFound(p)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("error resolving %s: %w", p, err)
	}
	return abs, nil
}

// Instrumentation maps each sample file to the set of instruments it plays.
type Instrumentation struct {
	bindings map[SampleFile]map[pattern.Instrument]struct{}
	owner    map[pattern.Instrument]SampleFile
}

// ParseFile parses the instrumentation file at path.
func ParseFile(path string) (*Instrumentation, error) {
	f, err := scan.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	in, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// Parse reads an instrumentation from r.
func Parse(r io.Reader) (*Instrumentation, error) {
	in := &Instrumentation{
		bindings: make(map[SampleFile]map[pattern.Instrument]struct{}),
		owner:    make(map[pattern.Instrument]SampleFile),
	}
	err := scan.Lines(r, func(num int, line string) error {
		i, sf, ok := parseBinding(line)
		if !ok {
			return &drumerr.LineError{Kind: drumerr.ErrParse, Num: num, Line: line}
		}
		if err := in.bind(i, sf); err != nil {
			return &drumerr.LineError{Kind: err, Num: num, Line: string(i)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (in *Instrumentation) bind(i pattern.Instrument, sf SampleFile) error {
	if _, dup := in.owner[i]; dup {
		return drumerr.ErrDuplicateInstrument
	}
	set, ok := in.bindings[sf]
	if !ok {
		set = make(map[pattern.Instrument]struct{})
		in.bindings[sf] = set
	}
	set[i] = struct{}{}
	in.owner[i] = sf
	return nil
}

// SampleFiles returns the bound sample files in sorted order.
func (in *Instrumentation) SampleFiles() []SampleFile {
	return slices.Sorted(maps.Keys(in.bindings))
}

// Instruments returns the instruments bound to sf in sorted order.
func (in *Instrumentation) Instruments(sf SampleFile) []pattern.Instrument {
	return slices.Sorted(maps.Keys(in.bindings[sf]))
}

// SampleFileOf returns the sample file instrument i is bound to.
func (in *Instrumentation) SampleFileOf(i pattern.Instrument) (SampleFile, bool) {
	sf, ok := in.owner[i]
	return sf, ok
}

// Len returns the number of distinct sample files.
func (in *Instrumentation) Len() int {
	return len(in.bindings)
}

func (in *Instrumentation) String() string {
	var b strings.Builder
	for _, sf := range in.SampleFiles() {
		b.WriteString(string(sf))
		for _, i := range in.Instruments(sf) {
			b.WriteString(" " + string(i))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func parseBinding(line string) (pattern.Instrument, SampleFile, bool) {
	c := scan.New(line)
	_, c, _ = scan.Spaces(c)
	name, c, ok := scan.Token(c)
	if !ok {
		return "", "", false
	}
	if _, c, ok = scan.Spaces1(c); !ok {
		return "", "", false
	}
	file, c, ok := scan.Token(c)
	if !ok {
		return "", "", false
	}
	_, c, _ = scan.Spaces(c)
	if _, _, ok = scan.End(c); !ok {
		return "", "", false
	}
	return pattern.Instrument(name), SampleFile(file), true
}
