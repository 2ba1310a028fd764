package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/icco/lofi/internal/compose"
	"github.com/icco/lofi/internal/debug"
	"github.com/icco/lofi/internal/engine"
	"github.com/icco/lofi/internal/sink"
	"github.com/icco/lofi/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play generated music with a live visualizer",
	Long: `Start the generator on the default audio device and show a scrolling
scope of the output.

Keys:
  p / space   start or stop generation
  q / ctrl+c  quit

Example:
  lofi play --seed 42
`,
	Run: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out, err := sink.NewOto(compose.SampleRate)
	if err != nil {
		if errors.Is(err, sink.ErrNoOutput) {
			fmt.Fprintln(os.Stderr, "No audio output available. Try `lofi render` to write a WAV file instead.")
		}
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	e, err := engine.New(out, engine.WithSeed(cfg.Seed), engine.WithPacing(cfg.Lead))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating engine: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(tui.NewModel(ctx, e, cfg.Visualizer), tea.WithAltScreen())

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		debug.Log("cmd", "Signal received, quitting")
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	e.Stop()
	if done := e.Done(); done != nil {
		<-done
	}
	if err := e.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Audio stopped: %v\n", err)
	}
}
