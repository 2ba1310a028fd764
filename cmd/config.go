package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icco/lofi/internal/config"
)

var saveConfig bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration lofi would run with: the config file merged over
the defaults, with any flags applied.

With --save the result is written back to the config file, which is a quick
way to create one to edit.

Example:
  lofi config --seed 42 --save
`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&saveConfig, "save", false, "Write the effective config to the config file")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	if !saveConfig {
		return nil
	}
	path := configPath
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to save config %s: %w", path, err)
	}
	fmt.Printf("Saved to %s\n", path)
	return nil
}
