package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"teamchat/internal/chat"
	"teamchat/internal/config"
	"teamchat/internal/gateway"
	"teamchat/internal/llm"
	"teamchat/internal/logging"
	"teamchat/internal/store"
	"teamchat/internal/workspace"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the workspace server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			// The pre-run logger only knows the --log-level flag; once the
			// config is loaded, honor its logging section unless the flag
			// overrode it.
			level := cfg.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			log = logging.New(logging.Console(cfg.Logging.Style), level)

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if cfg.Auth.Password == "" {
				log.Warn().Msg("no workspace password configured, logins will be rejected")
			}
			if cfg.Anthropic.APIKey == "" {
				log.Warn().Msg("no Anthropic API key configured, agent replies will fail")
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("creating data directories: %w", err)
			}

			db, err := store.Open(paths.DBPath(cfg.Store), log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
			msgs := store.NewMessageStore(db)

			client := llm.NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
			if cfg.Anthropic.BaseURL != "" {
				client.BaseURL = cfg.Anthropic.BaseURL
			}
			svc := chat.NewService(client, log)

			hub := gateway.NewHub(log)
			ws := workspace.New(msgs, svc, hub, workspace.Config{
				ReplyDelay: time.Duration(cfg.Workspace.ReplyDelayMs) * time.Millisecond,
			}, log)

			if err := ws.Load(); err != nil {
				return fmt.Errorf("loading chat history: %w", err)
			}
			if counts, err := msgs.Counts(); err == nil {
				for channel, n := range counts {
					log.Debug().Str("channel", channel).Int("messages", n).Msg("history rehydrated")
				}
			}

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Let in-flight history writes land before the DB closes.
			defer ws.Flush()

			srv := gateway.New(cfg, log, hub, ws, svc, msgs)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
