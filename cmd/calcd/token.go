package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calcstack/calcd/adapters/auth"
	"github.com/calcstack/calcd/config"
)

var (
	tokenSubject string
	tokenRole    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin token for the analytics API",
	Long: `Mint a signed bearer token for /api/admin/analytics.

The token is signed with auth.jwt_secret from the config file, so it
is only accepted by servers running with the same secret.

Examples:
  calcd token
  calcd token --subject ops --role viewer`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", auth.RoleAdmin, "token role (admin or viewer)")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is not set in %s", cfgFile)
	}
	if tokenRole != auth.RoleAdmin && tokenRole != auth.RoleViewer {
		return fmt.Errorf("unknown role %q", tokenRole)
	}

	svc := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	token, expires, err := svc.GenerateToken(tokenSubject, tokenRole)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Println(token)
	fmt.Printf("expires: %s\n", expires.Format("2006-01-02 15:04:05 MST"))
	return nil
}
