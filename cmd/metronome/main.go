package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/metronome/config"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "metronome",
		Short: "Fixed-timestep simulation with interpolated presentation",
		Long: `metronome runs a ship simulation at a fixed tick rate regardless of how
irregularly the host loop is scheduled, and presents frames interpolated
between the last two simulated states.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file (built-in defaults when empty)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write logs to logs/metronome.log")

	rootCmd.AddCommand(newRunCmd(), newTraceCmd())
}

// loadConfig reads --config and applies --debug
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Log.Debug = true
	}
	return cfg, nil
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			HandleCrash(r)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "metronome: %v\n", err)
		os.Exit(1)
	}
}
