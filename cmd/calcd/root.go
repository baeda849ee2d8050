package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "calcd",
	Short: "Calculator API server with rate limiting and usage auditing",
	Long: `calcd serves a collection of calculation endpoints (financial,
health, conversion, and generator tools) behind a rate-limited JSON API.

Quick start:
  calcd serve       # Start the API server
  calcd validate    # Validate configuration

Management:
  calcd keys hash   # Hash an API key for the config file
  calcd token       # Mint an admin token for /api/admin/analytics`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "calcd.yaml", "config file path")
}
