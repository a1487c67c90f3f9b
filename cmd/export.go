package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icco/rudiments/internal/machine"
	"github.com/icco/rudiments/internal/midiexport"
)

var (
	exportInputs inputs
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a pattern as a Standard MIDI File",
	Long: `Bind a pattern to its instrumentation and write one measure as a Standard
MIDI File. Each sample file becomes a track on the General MIDI percussion
channel, keyed upward from C1 (36) in sample file order, with velocity taken
from the track amplitude.

Example:
  rudiments export -p ./assets/patterns/standard -i ./assets/instrumentations/linndrum -o standard.mid
`,
	RunE: runExport,
}

func init() {
	exportInputs.addFlags(exportCmd, false)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "pattern.mid", "Path of the MIDI file to write")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	exportInputs.applyConfig(cmd, cfg)
	tempo, err := exportInputs.tempoValue()
	if err != nil {
		return err
	}
	p, ins, err := exportInputs.load()
	if err != nil {
		return err
	}
	tracks, _, err := machine.Bind(machine.Request{
		Pattern:         p,
		Instrumentation: ins,
		Tempo:           tempo,
	})
	if err != nil {
		return err
	}

	if err := midiexport.WriteFile(exportOut, tracks, tempo); err != nil {
		return err
	}
	logger.Info("wrote MIDI file", "path", exportOut, "tracks", len(tracks), "tempo", tempo)
	fmt.Fprintln(cmd.OutOrStdout(), exportOut)
	return nil
}
