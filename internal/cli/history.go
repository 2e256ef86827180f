package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teamchat/internal/config"
	"teamchat/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage persisted chat history",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

func openMessageStore() (*store.MessageStore, func(), error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, nil, err
	}

	dbPath := paths.DBPath(cfg.Store)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, nil, fmt.Errorf("no history database at %s", dbPath)
	}

	db, err := store.Open(dbPath, log)
	if err != nil {
		return nil, nil, err
	}
	return store.NewMessageStore(db), func() { db.Close() }, nil
}

func newHistoryListCmd() *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, closeDB, err := openMessageStore()
			if err != nil {
				return err
			}
			defer closeDB()

			if channel == "" {
				counts, err := msgs.Counts()
				if err != nil {
					return err
				}
				if len(counts) == 0 {
					fmt.Println("no messages")
					return nil
				}
				for ch, n := range counts {
					fmt.Printf("  %-12s %d message(s)\n", ch, n)
				}
				return nil
			}

			list, err := msgs.ListChannel(channel)
			if err != nil {
				return err
			}
			for _, m := range list {
				who := "you"
				if m.AgentID != "" {
					who = m.AgentID
				}
				fmt.Printf("  [%s] %-8s %s\n", m.Timestamp.Format("2006-01-02 15:04"), who, m.Content)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "show one channel's messages instead of per-channel counts")
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete one channel's persisted messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if channel == "" {
				return fmt.Errorf("--channel is required")
			}

			msgs, closeDB, err := openMessageStore()
			if err != nil {
				return err
			}
			defer closeDB()

			deleted, err := msgs.Clear(channel)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d message(s) from %s\n", deleted, channel)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "channel to clear")
	return cmd
}
