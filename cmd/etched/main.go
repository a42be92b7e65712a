package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etched-id/etched-go/internal/app"
	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool
	apiURL     string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "etched",
	Short: "Mint, verify and browse Markdown works on Solana",
	Long: `etched talks to an Etched API server to prepare transactions, signs them
with a local keypair and follows them to confirmation. Read-only commands
query the indexer and name service directly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = shared.NewLogger(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Etched API base URL (defaults to the site URL)")

	rootCmd.AddCommand(mintCmd, verifyCmd, resolveCmd, archiveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func loadComponents() (*app.Components, error) {
	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return app.Build(config, logger)
}

func apiBaseURL(config shared.Config) string {
	if apiURL != "" {
		return apiURL
	}
	return config.SiteURL
}
