package main

import (
	"github.com/spf13/cobra"

	"github.com/bahrain-bp/bqa-insight-ai/internal/cli"
	"github.com/bahrain-bp/bqa-insight-ai/internal/config"
	"github.com/bahrain-bp/bqa-insight-ai/internal/presentation/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the bot in the terminal",
	Long: `Plays the conversational platform locally: answers are typed as text, options
are matched ignoring case, 'back' revisits the previous question and 'menu'
returns to the main menu. Sessions are kept in Redis when REDIS_ADDR is set,
so a chat can be resumed with --session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		offline, _ := cmd.Flags().GetBool("offline")
		app, err := loadApp(cmd, true, func(cfg *config.Config) {
			if offline {
				cfg.Generator = config.GeneratorEcho
			}
		})
		if err != nil {
			return err
		}
		defer app.Close()

		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		plain, _ := cmd.Flags().GetBool("plain")
		quiet, _ := cmd.Flags().GetBool("quiet")

		return cli.RunChat(cmd.Context(), app, cli.ChatOptions{
			SessionID: sessionID,
			Fresh:     fresh,
			Plain:     plain || !tui.IsInteractive(),
			Quiet:     quiet,
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
		})
	},
}

func init() {
	chatCmd.Flags().StringP("session", "s", "", "Resume the conversation with this id")
	chatCmd.Flags().Bool("fresh", false, "Delete the session before starting")
	chatCmd.Flags().Bool("offline", false, "Answer with the offline echo generator instead of the model")
	chatCmd.Flags().Bool("plain", false, "Print answers without markdown rendering")
	chatCmd.Flags().BoolP("quiet", "q", false, "Hide the banner and the closing hint")
	rootCmd.AddCommand(chatCmd)
}
