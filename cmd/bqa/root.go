package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bahrain-bp/bqa-insight-ai/internal/cli"
	"github.com/bahrain-bp/bqa-insight-ai/internal/config"
	"github.com/bahrain-bp/bqa-insight-ai/internal/logging"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/memory"
)

var rootCmd = &cobra.Command{
	Use:   "bqa",
	Short: "BQA Insight is the fulfillment backend of the BQA review chatbot",
	Long: `BQA Insight walks users through questions about the quality assurance reviews of
schools, vocational training centers and universities in Bahrain, and answers them
with a generative model.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "YAML config file (environment variables override it)")
	rootCmd.PersistentFlags().String("prompts", "", "YAML prompt template file replacing the embedded templates")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides BQA_LOG_LEVEL)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
}

// loadConfig reads the config file named by --config and the environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

// newLogger writes to Stderr so Stdout stays free for chat output and JSON-RPC.
// Interactive commands only log warnings unless --log-level is given.
func newLogger(cmd *cobra.Command, cfg config.Config, interactive bool) (*slog.Logger, error) {
	level := slog.LevelWarn
	if !interactive || cmd.Flags().Changed("log-level") {
		var err error
		if level, err = logging.ParseLevel(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	if asJSON, _ := cmd.Flags().GetBool("json-logs"); asJSON {
		return logging.NewJSON(os.Stderr, level), nil
	}
	return logging.New(level), nil
}

// loadApp wires the bot for commands that call the generator. adjust runs
// before validation, so flags can override the loaded settings.
func loadApp(cmd *cobra.Command, interactive bool, adjust ...func(*config.Config)) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	for _, fn := range adjust {
		fn(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := newLogger(cmd, cfg, interactive)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", "config", cfg)

	promptsFile, _ := cmd.Flags().GetString("prompts")
	return cli.NewApp(cmd.Context(), cfg, logger, cli.AppOptions{PromptsFile: promptsFile})
}

// loadOfflineApp wires the bot with the offline generator, for commands that
// only inspect trees or stored sessions.
func loadOfflineApp(cmd *cobra.Command) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd, cfg, true)
	if err != nil {
		return nil, err
	}
	promptsFile, _ := cmd.Flags().GetString("prompts")
	return cli.NewApp(cmd.Context(), cfg, logger, cli.AppOptions{
		PromptsFile: promptsFile,
		Generator:   memory.NewEcho(),
	})
}
