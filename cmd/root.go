package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/icco/rudiments/internal/config"
)

var (
	configPath string
	debug      bool

	// cfg is loaded before any subcommand runs.
	cfg = config.DefaultConfig()

	// logger is the shared structured logger; initLogger replaces it.
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "rudiments",
	Short: "A step-sequencing drum machine",
	Long: `rudiments is a step-sequencing drum machine that plays rhythm patterns using
audio samples.

It loads a pattern file, binds the pattern's tracks to audio files in a samples
directory per an instrumentation file, and plays the resulting measure once or
on repeat at the requested tempo.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogger(debug)
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.config/rudiments/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// initLogger configures the shared slog logger on stderr.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
