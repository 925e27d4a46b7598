// Package main provides the entry point for the consensus CLI application.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sabq4org/consensus/internal/analyze"
	"github.com/sabq4org/consensus/internal/config"
	"github.com/sabq4org/consensus/internal/content"
	"github.com/sabq4org/consensus/internal/llm"
)

var (
	version    = "0.1.0-dev"
	configPath string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Optional .env for local development; config interpolates the variables.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "consensus",
		Short:   "Multi-provider AI consensus engine for the newsroom",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "consensus.yaml", "Path to configuration file")

	rootCmd.AddCommand(
		newFactCheckCmd(),
		newTrendsCmd(),
		newInitConfigCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

// buildEngine loads configuration and wires the provider adapters and the
// content store into an analysis engine.
func buildEngine() (*analyze.Engine, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	setupLogging(cfg.Logging)

	providers := make(map[string]llm.Provider, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		p, err := llm.NewProvider(name, pc)
		if err != nil {
			return nil, nil, fmt.Errorf("building provider %q: %w", name, err)
		}
		providers[name] = p
	}

	store, err := content.NewSQLiteStore(cfg.Content.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening content store: %w", err)
	}

	engine, err := analyze.NewEngine(cfg, providers, store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close content store")
		}
	}
	return engine, cleanup, nil
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
