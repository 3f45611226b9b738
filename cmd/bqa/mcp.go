package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	insight "github.com/bahrain-bp/bqa-insight-ai"
	"github.com/bahrain-bp/bqa-insight-ai/internal/config"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server",
	Long: `Exposes the chat simulator as MCP tools (start_session, send_message,
get_session, list_intents, render_prompt) over stdio, or over SSE with --sse.`,
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

		srv := mcp.NewServer(app.Simulator, insight.Version, mcp.WithCatalog(app.Bot), mcp.WithLogger(app.Logger))

		if sse, _ := cmd.Flags().GetBool("sse"); sse {
			port, _ := cmd.Flags().GetInt("port")
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ServeSSE(ctx, port)
		}
		return srv.ServeStdio()
	},
}

func init() {
	mcpCmd.Flags().Bool("sse", false, "Serve over SSE instead of stdio")
	mcpCmd.Flags().Int("port", 8081, "SSE port")
	mcpCmd.Flags().Bool("offline", false, "Answer with the offline echo generator instead of the model")
	rootCmd.AddCommand(mcpCmd)
}
