package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/icco/lofi/internal/config"
	"github.com/icco/lofi/internal/debug"
)

var (
	configPath string
	debugFlag  bool
	seed       int64
)

var rootCmd = &cobra.Command{
	Use:   "lofi",
	Short: "A procedural lo-fi music generator",
	Long: `lofi generates an endless lo-fi track in real time: plucked chords,
a wandering melody, a bass drone and a swung drum pattern, mixed sample by
sample and streamed to the audio device.

Run without a subcommand it behaves like "lofi play".`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		debug.Disable()
	},
	Run: runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/lofi/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Write a debug log to ~/.config/lofi/debug.log")
	rootCmd.PersistentFlags().Int64VarP(&seed, "seed", "s", 0, "Random seed (0 seeds from the clock)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies any flags the user set.
// Debug logging is switched on here when requested.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to find config directory: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debugFlag
	}

	if cfg.Debug {
		logPath, err := config.LogPath()
		if err != nil {
			return nil, err
		}
		if err := debug.Enable(logPath); err != nil {
			return nil, fmt.Errorf("failed to open debug log: %w", err)
		}
		debug.Log("cmd", "Loaded config %s: %+v", path, *cfg)
	}
	return cfg, nil
}
