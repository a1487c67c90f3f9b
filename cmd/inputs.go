package cmd

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/icco/rudiments/internal/config"
	"github.com/icco/rudiments/internal/instrumentation"
	"github.com/icco/rudiments/internal/pattern"
	"github.com/icco/rudiments/internal/timing"
)

// inputs are the file and tempo flags shared by play, inspect and export.
type inputs struct {
	pattern         string
	instrumentation string
	samples         string
	tempo           int
}

func (in *inputs) addFlags(cmd *cobra.Command, withSamples bool) {
	f := cmd.Flags()
	f.StringVarP(&in.pattern, "pattern", "p", "", "Path to pattern file")
	f.StringVarP(&in.instrumentation, "instrumentation", "i", "", "Path to instrumentation file")
	f.IntVarP(&in.tempo, "tempo", "t", int(timing.DefaultTempo), "Playback tempo")
	if withSamples {
		f.StringVarP(&in.samples, "samples", "s", "", "Search path for sample files")
	}
	_ = cmd.MarkFlagRequired("pattern")
}

// applyConfig fills every flag the user did not set from the config file.
func (in *inputs) applyConfig(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if !f.Changed("instrumentation") && c.Instrumentation != "" {
		in.instrumentation = c.Instrumentation
	}
	if f.Lookup("samples") != nil && !f.Changed("samples") && c.Samples != "" {
		in.samples = c.Samples
	}
	if !f.Changed("tempo") {
		in.tempo = c.Tempo
	}
}

func (in *inputs) tempoValue() (timing.Tempo, error) {
	if in.tempo <= 0 || in.tempo > math.MaxUint16 {
		return 0, fmt.Errorf("tempo %d out of range 1-%d", in.tempo, math.MaxUint16)
	}
	return timing.Tempo(in.tempo), nil
}

// load parses the pattern and instrumentation files.
func (in *inputs) load() (*pattern.Pattern, *instrumentation.Instrumentation, error) {
	if in.instrumentation == "" {
		return nil, nil, errors.New("an instrumentation file is required (--instrumentation or config)")
	}

	p, err := pattern.ParseFile(in.pattern)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("parsed pattern", "path", in.pattern, "tracks", p.Len())

	ins, err := instrumentation.ParseFile(in.instrumentation)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("parsed instrumentation", "path", in.instrumentation, "sample_files", ins.Len())

	return p, ins, nil
}
