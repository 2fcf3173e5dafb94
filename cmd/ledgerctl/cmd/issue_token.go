package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/utils"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Issue a bearer token for a collaborating module",
	Long: `Signs a token with JWT_SECRET and JWT_ISSUER. Payment voucher, receipt voucher
and the other source modules present it when calling the ledger API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenSubject == "" {
			return errors.New("--subject is required")
		}
		if tokenTTL <= 0 {
			return fmt.Errorf("--ttl must be positive, got %s", tokenTTL)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		token, err := utils.GenerateJWT(tokenSubject, cfg.JWTSecret, tokenTTL, cfg.JWTIssuer)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	issueTokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "user or module the token is issued to")
	issueTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
