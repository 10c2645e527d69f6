package main

import (
	"fmt"
	"time"

	"github.com/forecast-ops/job-tracker/internal/auth"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the local authenticator",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, teardown, err := setup()
		if err != nil {
			return err
		}
		defer teardown()

		authenticator, err := auth.NewLocalAuthenticator([]byte(cfg.Service.Auth.SigningKey))
		if err != nil {
			return err
		}

		token, err := authenticator.GenerateToken(tokenSubject, tokenTTL)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "User name carried by the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.DefaultTokenExpiration, "Token lifetime")
}
