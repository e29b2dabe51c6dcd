// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the foliocms command line entry point. It wires the
// serve, list, migrate-images, and sync subcommands over a shared
// environment-driven configuration.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"foliocms/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "foliocms",
	Short: "Markdown-backed blog and portfolio content manager",
	Long: `foliocms manages a filesystem content tree of blog posts and
portfolio projects: a development-only JSON admin API, image helpers,
and an S3 content mirror. The filesystem is the only datastore.`,
	SilenceUsage: true,
}

func main() {
	// Missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration for subcommands that need it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
