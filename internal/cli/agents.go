package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"teamchat/internal/agent"
)

func newAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Inspect the workspace personas",
	}

	cmd.AddCommand(newAgentsListCmd())
	cmd.AddCommand(newAgentsShowCmd())
	return cmd
}

func newAgentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the five personas",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, a := range agent.All() {
				fmt.Printf("  %-8s %s %-10s %s\n", a.ID, a.Emoji, a.Name, a.Role)
			}
		},
	}
}

func newAgentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one persona including its system prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ok := agent.ByID(args[0])
			if !ok {
				return fmt.Errorf("unknown agent: %s", args[0])
			}
			fmt.Printf("%s %s — %s (%s)\n\n", a.Emoji, a.Name, a.Role, a.ID)
			fmt.Println(a.SystemPrompt)
			return nil
		},
	}
}
