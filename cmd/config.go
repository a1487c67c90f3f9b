package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/icco/rudiments/internal/config"
)

var (
	configForce bool
	configSet   config.Config
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the rudiments config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write default settings to the config file",
	Long: `Write the settings currently in effect (built-in defaults, the existing config
file and any flags given here) to the config file.

Example:
  rudiments config init --samples ~/samples/linndrum --instrumentation ~/linndrum --tempo 118
`,
	RunE: runConfigInit,
}

func init() {
	f := configInitCmd.Flags()
	f.StringVarP(&configSet.Samples, "samples", "s", "", "Default samples directory")
	f.StringVarP(&configSet.Instrumentation, "instrumentation", "i", "", "Default instrumentation file")
	f.IntVarP(&configSet.Tempo, "tempo", "t", 0, "Default tempo")
	f.BoolVarP(&configSet.Repeat, "repeat", "r", false, "Repeat by default")
	f.BoolVar(&configSet.TUI, "tui", false, "Show the player view by default")
	f.BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists; pass --force to overwrite", path)
	}

	out := *cfg
	f := cmd.Flags()
	if f.Changed("samples") {
		out.Samples = configSet.Samples
	}
	if f.Changed("instrumentation") {
		out.Instrumentation = configSet.Instrumentation
	}
	if f.Changed("tempo") {
		out.Tempo = configSet.Tempo
	}
	if f.Changed("repeat") {
		out.Repeat = configSet.Repeat
	}
	if f.Changed("tui") {
		out.TUI = configSet.TUI
	}

	if err := config.Save(path, &out); err != nil {
		return err
	}
	logger.Info("wrote config", "path", path)
	return nil
}
