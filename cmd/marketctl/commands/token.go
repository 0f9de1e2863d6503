package commands

import (
	"fmt"
	"time"

	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/services"
	"github.com/spf13/cobra"
)

var (
	// Token flags
	tokenTTL time.Duration
)

// tokenCmd issues a bearer token signed with JWT_SECRET
var tokenCmd = &cobra.Command{
	Use:   "token EMAIL",
	Short: "Issue a bearer token for EMAIL",
	Long: `Issue an HS256 bearer token for EMAIL signed with JWT_SECRET.

Examples:
  marketctl token seller@campus.edu
  marketctl token seller@campus.edu --ttl 15m`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}

		token, err := services.NewJWTAuthenticator(cfg.JWTSecret).IssueToken(args[0], tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}
