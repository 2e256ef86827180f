package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teamchat/internal/agent"
	"teamchat/internal/config"
	"teamchat/internal/version"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show teamchat status and configuration summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("teamchat %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Printf("Config:  error loading: %v\n", err)
				return nil
			}

			fmt.Printf("Server:  port=%d bind=%s\n", cfg.Server.Port, cfg.Server.Bind)

			password := "not set"
			if cfg.Auth.Password != "" {
				password = "set"
			}
			apiKey := "not set"
			if cfg.Anthropic.APIKey != "" {
				apiKey = "set"
			}
			fmt.Printf("Auth:    password=%s sessionTtl=%dh\n", password, cfg.Auth.SessionTTLHours)
			fmt.Printf("Model:   %s (apiKey=%s)\n", cfg.Anthropic.Model, apiKey)

			dbPath := paths.DBPath(cfg.Store)
			if _, err := os.Stat(dbPath); err == nil {
				fmt.Printf("History: %s\n", dbPath)
			} else {
				fmt.Printf("History: %s (not created yet)\n", dbPath)
			}

			fmt.Printf("Agents:  %d personas\n", len(agent.All()))
			return nil
		},
	}
}
