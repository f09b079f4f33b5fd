package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/server"
)

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Issue a user token for the keyword-extraction endpoint",
	Long: `Issue a signed user token. Requests carrying it are charged against the
user's hourly quota. Needs server.jwt_secret (JWT_SECRET).`,
	RunE: runIssueToken,
}

var issueTokenUser string

func init() {
	issueTokenCmd.Flags().StringVar(&issueTokenUser, "user-id", "", "User ID (UUID); a new one is generated when empty")
	rootCmd.AddCommand(issueTokenCmd)
}

func runIssueToken(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := cfg.JWT()
	if err != nil {
		return err
	}

	userID := uuid.New()
	if issueTokenUser != "" {
		userID, err = uuid.Parse(issueTokenUser)
		if err != nil {
			return fmt.Errorf("invalid user ID: %w", err)
		}
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(userID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "User: %s\n", userID)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
