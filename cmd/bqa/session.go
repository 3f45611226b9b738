package main

import (
	"github.com/spf13/cobra"

	"github.com/bahrain-bp/bqa-insight-ai/internal/cli"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage simulator sessions",
	Long:  `List, inspect, and remove the conversations kept by the chat simulator (Redis when REDIS_ADDR is set).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadOfflineApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.ListSessions(cmd.Context(), cmd.OutOrStdout(), app.Manager)
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		app, err := loadOfflineApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.InspectSession(cmd.Context(), cmd.OutOrStdout(), app, args[0], mermaid)
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadOfflineApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.RemoveSessions(cmd.Context(), cmd.OutOrStdout(), app.Manager, args)
	},
}

func init() {
	sessionInspectCmd.Flags().Bool("mermaid", false, "Print the step trees with the session's path highlighted")
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
