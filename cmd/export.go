package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/icco/lofi/internal/compose"
	"github.com/icco/lofi/internal/debug"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the chord, melody and drum loop as a MIDI file",
	Long: `Write the composition's deterministic material as a Standard MIDI File:
one loop where the chord progression and the melody line up again, with
chords on channel 1, melody on channel 2 and drums on channel 10.

Randomized detail (timing jitter, detune, swing) only exists in the audio.

Example:
  lofi export --output loop.mid
`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "lofi.mid", "Output MIDI path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOutput, err)
	}
	defer f.Close()

	if err := compose.WriteMIDI(f); err != nil {
		return err
	}
	debug.Log("cmd", "Exported %d-beat loop to %s", compose.LoopBeats(), exportOutput)
	fmt.Printf("Wrote %d-beat loop to %s\n", compose.LoopBeats(), exportOutput)
	return nil
}
