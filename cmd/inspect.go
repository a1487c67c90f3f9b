package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/icco/rudiments/internal/machine"
	"github.com/icco/rudiments/internal/timing"
)

var inspectInputs inputs

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the bound tracks and timing of a pattern",
	Long: `Parse a pattern and instrumentation, bind them into tracks and print the
result together with the measure timing and loop pad at the given tempo.

When --samples is given each sample file is resolved against it as well.`,
	RunE: runInspect,
}

func init() {
	inspectInputs.addFlags(inspectCmd, true)
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	inspectInputs.applyConfig(cmd, cfg)
	tempo, err := inspectInputs.tempoValue()
	if err != nil {
		return err
	}
	p, ins, err := inspectInputs.load()
	if err != nil {
		return err
	}
	tracks, aggregate, err := machine.Bind(machine.Request{
		Pattern:         p,
		Instrumentation: ins,
		Tempo:           tempo,
	})
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render("Pattern") + "\n")
	b.WriteString(p.String())
	b.WriteString("\n" + headingStyle.Render("Instrumentation") + "\n")
	b.WriteString(ins.String())

	b.WriteString("\n" + headingStyle.Render("Tracks") + "\n")
	for _, sf := range tracks.SampleFiles() {
		t := tracks[sf]
		line := fmt.Sprintf("%-20s %s %s", sf, t.Steps, t.Amplitude)
		if inspectInputs.samples != "" {
			if path, err := sf.Resolve(inspectInputs.samples); err != nil {
				line += " " + missingStyle.Render(err.Error())
			} else {
				line += " " + path
			}
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "%-20s %s\n", "(aggregate)", aggregate)

	trailing := aggregate.TrailingSilentSteps()
	b.WriteString("\n" + headingStyle.Render("Timing") + "\n")
	fmt.Fprintf(&b, "tempo            %s BPM\n", tempo)
	fmt.Fprintf(&b, "measure          %s\n", timing.MeasureDuration(tempo))
	fmt.Fprintf(&b, "step             %s\n", timing.StepDuration(tempo))
	fmt.Fprintf(&b, "trailing silence %d steps\n", trailing)
	fmt.Fprintf(&b, "delay factor     %g\n", timing.DelayFactor(tempo))
	fmt.Fprintf(&b, "loop pad         %s\n", timing.PadDuration(tempo, trailing))
	if timing.PadInverted(tempo) {
		b.WriteString(missingStyle.Render("tempo above 240 BPM: loop pad is inverted") + "\n")
	}

	fmt.Fprint(cmd.OutOrStdout(), b.String())
	return nil
}
