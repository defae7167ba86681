package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkFlags struct {
	configPath string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a zone YAML description without running it.",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := LoadConfig(checkFlags.configPath)
		if err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		fmt.Printf("zone %s: %d cavities, configuration ok\n",
			cfg.Zone, len(cfg.Cavities))

		return nil
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkFlags.configPath, "config", "c", "",
		"path to the zone YAML description (required)")
	_ = checkCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(checkCmd)
}
