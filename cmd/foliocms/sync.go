// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"foliocms/internal/storage"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the content tree to S3-compatible object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3Prefix,
		)
		if err != nil {
			return err
		}
		if client == nil {
			return fmt.Errorf("S3 is not configured; set S3_ENDPOINT, S3_ACCESS_KEY, and S3_SECRET_KEY")
		}

		result, err := client.SyncDir(cmd.Context(), cfg.ContentDir)
		if err != nil {
			return err
		}

		fmt.Printf("scanned %d files, pushed %d, skipped %d unchanged\n",
			result.Scanned, result.Pushed, result.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
