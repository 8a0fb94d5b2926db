package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/macrofuel/macrofuel-api/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "macrofuel-api",
	Short: "Structured-generation backend for the macrofuel fitness tracker",
	Long:  "Turns unreliable LLM text into typed nutrition data: provider fallback, JSON repair, schema coercion, and a crowdsourced fact cache.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
