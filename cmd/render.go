package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/icco/lofi/internal/compose"
	"github.com/icco/lofi/internal/debug"
	"github.com/icco/lofi/internal/engine"
	"github.com/icco/lofi/internal/sink"
)

var (
	renderSeconds float64
	renderOutput  string
)

var errRendered = errors.New("render length reached")

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render generated music to a WAV file",
	Long: `Run the generator offline, as fast as possible, and write the result to a
16-bit mono WAV file.

Example:
  lofi render --seconds 60 --output study.wav --seed 7
`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().Float64VarP(&renderSeconds, "seconds", "t", 0, "Length to render (default from config)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output WAV path (default from config)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seconds") {
		cfg.Render.Seconds = renderSeconds
	}
	if cmd.Flags().Changed("output") {
		cfg.Render.Path = renderOutput
	}
	if cfg.Render.Seconds <= 0 {
		return fmt.Errorf("render length must be positive, got %v", cfg.Render.Seconds)
	}

	f, err := os.Create(cfg.Render.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", cfg.Render.Path, err)
	}
	defer f.Close()

	out := sink.NewWav(f, compose.SampleRate)
	seconds := cfg.Render.Seconds
	e, err := engine.New(out,
		engine.WithSeed(cfg.Seed),
		engine.WithYielder(engine.YieldFunc(func(ctx context.Context) error {
			if out.Duration() >= seconds {
				return errRendered
			}
			return ctx.Err()
		})),
	)
	if err != nil {
		return err
	}

	e.Start(cmd.Context())
	<-e.Done()
	if err := e.Err(); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if err := out.Close(); err != nil {
		return err
	}
	debug.Log("cmd", "Rendered %.2fs to %s", out.Duration(), cfg.Render.Path)
	fmt.Printf("Wrote %.1fs of audio to %s\n", out.Duration(), cfg.Render.Path)
	return nil
}
