package cmd

import (
	"fmt"
	"log"

	"camkit/core/config"
	"camkit/core/logger"
	"camkit/feature/preset"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// presetsCmd groups the offline preset hierarchy tools.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Inspect the preset hierarchy",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all loadable presets",
	Long:  `Scans defaults/ and presets/ and prints every preset the service would register.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, stats := loadHierarchy()
		for _, key := range store.Keys() {
			p, _ := store.Get(key)
			kind := "preset"
			if p.IsDefault {
				kind = "default"
			}
			if p.IsLink() {
				kind = "link -> " + p.Link
			}
			fmt.Printf("%-40s %s\n", key, kind)
		}
		fmt.Printf("\n%d defaults, %d presets, %d skipped, %d invalid\n",
			stats.Defaults, stats.Presets, stats.Skipped, stats.Invalid)
	},
}

var presetsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the preset hierarchy",
	Long:  `Loads the hierarchy and fails when the baseline profile set is incomplete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, stats := loadHierarchy()
		if store.Disabled() {
			return fmt.Errorf("baseline profile set incomplete: %d loaded", stats.Defaults)
		}
		fmt.Printf("ok: %d defaults, %d presets, %d invalid files skipped\n",
			stats.Defaults, stats.Presets, stats.Invalid)
		return nil
	},
}

// loadHierarchy builds a store over the configured preset root and scans it.
func loadHierarchy() (*preset.Store, preset.LoadStats) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logg, err := logger.New(&logger.Config{Level: "warn", Format: "console"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	fs := osfs.New(cfg.Presets.Root)
	usage := preset.NewUsageTracker(fs, cfg.Presets.UsageFile, logg)
	store := preset.NewStore(fs, cfg.Presets, usage, logg)
	stats, err := store.Load(false)
	if err != nil {
		logg.Warn("hierarchy incomplete", zap.Error(err))
	}
	return store, stats
}

func init() {
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsValidateCmd)
	RootCmd.AddCommand(presetsCmd)
}
