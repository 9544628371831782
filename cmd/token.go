package main

import (
	"fmt"
	"time"

	"github.com/arzan03/BloodBridge/internal/auth"
	"github.com/arzan03/BloodBridge/internal/config"
	"github.com/spf13/cobra"
)

var (
	tokenEmail string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for local testing",
	Long: `Mint an HS256 bearer token signed with JWT_SECRET.

Only valid when the server runs with AUTH_PROVIDER=hmac.

Examples:
  bloodbridge token --email donor@example.com --ttl 2h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Auth.Provider != config.ProviderHMAC {
			return fmt.Errorf("token requires AUTH_PROVIDER=%s, got %s", config.ProviderHMAC, cfg.Auth.Provider)
		}

		issuer, err := auth.NewHMACVerifier(cfg.Auth.JWTSecret)
		if err != nil {
			return err
		}
		token, err := issuer.IssueToken(tokenEmail, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim of the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("email")
}
