package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gradramp",
	Short: "gradramp ramps the gradients of a zone of SRF cavities.",
	Long: `gradramp runs closed-loop gradient Apply episodes for a zone of ` +
		`superconducting RF cavities. The run subcommand drives one episode ` +
		`against simulated hardware from a YAML zone description; check ` +
		`validates a zone description without running it.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// A .env file can override environment defaults such as
	// GRADRAMP_MONITOR_PORT. Its absence is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
