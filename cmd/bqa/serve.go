package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bahrain-bp/bqa-insight-ai/internal/cli"
	"github.com/bahrain-bp/bqa-insight-ai/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP fulfillment server",
	Long: `Starts the fulfillment webhook (POST /fulfillment) together with the session
simulator API (/sessions), health and info endpoints and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		app, err := loadApp(cmd, false, func(cfg *config.Config) {
			if addr != "" {
				cfg.ListenAddr = addr
			}
		})
		if err != nil {
			return err
		}
		defer app.Close()

		ln, err := net.Listen("tcp", app.Config.ListenAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", app.Config.ListenAddr, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.Serve(ctx, app, ln)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides BQA_LISTEN_ADDR, default :8080)")
	rootCmd.AddCommand(serveCmd)
}
