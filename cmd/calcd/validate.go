package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calcstack/calcd/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		fmt.Printf("%s is valid\n", cfgFile)
		fmt.Printf("  server:    %s:%d\n", cfg.Server.Host, cfg.Server.Port)
		fmt.Printf("  database:  %s\n", cfg.Database.Driver)
		fmt.Printf("  api keys:  %d\n", len(cfg.Auth.Keys))
		if cfg.RateLimit.Enabled {
			for name, limit := range cfg.RateLimit.Limits {
				fmt.Printf("  limit:     %s %d/min\n", name, limit.PerMinute)
			}
		} else {
			fmt.Println("  rate limiting disabled")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
