package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/icco/rudiments/internal/audio"
	"github.com/icco/rudiments/internal/machine"
	"github.com/icco/rudiments/internal/tui"
)

var (
	playInputs inputs
	repeat     bool
	showTUI    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a pattern once or on repeat",
	Long: `Play a pattern through the default audio output.

Every sample file is resolved and decoded before playback starts, so a missing
or unreadable sample aborts the run without playing anything.

Example:
  rudiments play \
    --pattern ./assets/patterns/standard \
    --instrumentation ./assets/instrumentations/linndrum \
    --samples ~/samples/linndrum \
    --repeat
`,
	RunE: runPlay,
}

func init() {
	playInputs.addFlags(playCmd, true)
	playCmd.Flags().BoolVarP(&repeat, "repeat", "r", false, "Repeat the pattern until stopped")
	playCmd.Flags().BoolVar(&showTUI, "tui", false, "Show the tracks with a moving playhead")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	playInputs.applyConfig(cmd, cfg)
	if !cmd.Flags().Changed("repeat") {
		repeat = cfg.Repeat
	}
	if !cmd.Flags().Changed("tui") {
		showTUI = cfg.TUI
	}

	tempo, err := playInputs.tempoValue()
	if err != nil {
		return err
	}
	p, ins, err := playInputs.load()
	if err != nil {
		return err
	}

	log := logger
	if showTUI {
		// The alternate screen owns the terminal while the view is up.
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	score, err := machine.Compose(machine.Request{
		Pattern:         p,
		Instrumentation: ins,
		SamplesDir:      playInputs.samples,
		Tempo:           tempo,
	}, machine.Options{SampleRate: audio.DefaultSampleRate, Logger: log})
	if err != nil {
		return err
	}

	dev, err := audio.OpenDefaultDevice(audio.DefaultSampleRate)
	if err != nil {
		return err
	}
	defer dev.Close()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !showTUI {
		return ignoreCanceled(machine.Play(ctx, dev, score, repeat, log))
	}
	return playWithView(ctx, dev, score, log)
}

func playWithView(ctx context.Context, dev audio.Output, score *machine.Score, log *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- machine.Play(ctx, dev, score, repeat, log)
	}()

	view := tui.New(playInputs.pattern, score.Tracks, score.Aggregate, score.Tempo, score.Pad(), repeat)
	prog := tea.NewProgram(view, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		prog.Quit()
	}()

	_, viewErr := prog.Run()
	cancel()
	playErr := ignoreCanceled(<-errc)
	return errors.Join(viewErr, playErr)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
