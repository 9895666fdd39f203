// Package main is the entry point for the Dragonlance console adventure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dragonlance",
	Short: "Dragonlance interactive fiction",
	Long: `Play a branching Dragonlance adventure in the terminal.

Configuration is read from the environment (DATA_DIR, SAVE_BACKEND, LOG_FILE, ...).`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(eventsCmd)
}
