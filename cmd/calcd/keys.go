package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys",
	Long: `Manage calcd API keys.

Keyed clients get a higher rate limit than anonymous ones. Keys are
stored in the config file as bcrypt hashes; the plaintext key is only
handed to the client.

Examples:
  calcd keys hash partner-secret-123`,
}

var keysHashCmd = &cobra.Command{
	Use:   "hash <key>",
	Short: "Hash an API key for the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeysHash,
}

var keyID string

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysHashCmd)

	keysHashCmd.Flags().StringVar(&keyID, "id", "client", "key ID recorded in the audit log")
}

func runKeysHash(cmd *cobra.Command, args []string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash key: %w", err)
	}

	fmt.Println("Add this entry to auth.keys in your config file:")
	fmt.Println()
	fmt.Printf("  - id: %s\n", keyID)
	fmt.Printf("    hash: \"%s\"\n", string(hash))
	return nil
}
