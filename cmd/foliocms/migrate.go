// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"foliocms/internal/migrate"
	"foliocms/internal/models"
	"foliocms/internal/store"
)

var (
	migrateCollection string
	migrateDryRun     bool
)

var migrateImagesCmd = &cobra.Command{
	Use:   "migrate-images",
	Short: "Download remote images referenced by content and rewrite references to local copies",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var collection models.Collection
		switch migrateCollection {
		case "posts":
			collection = models.CollectionPosts
		case "projects":
			collection = models.CollectionProjects
		default:
			return fmt.Errorf("--collection must be posts or projects, got %q", migrateCollection)
		}

		m := migrate.New(
			store.NewPostStore(cfg.ContentDir),
			store.NewProjectStore(cfg.ContentDir),
			store.NewImageStore(cfg.PublicDir),
		)

		report, err := m.Run(cmd.Context(), collection, migrateDryRun)
		if err != nil {
			return err
		}

		if migrateDryRun {
			fmt.Println("dry run, nothing was modified")
		}
		fmt.Printf("scanned %d files, rewrote %d, downloaded %d images\n",
			report.Scanned, report.Rewritten, report.Downloaded)
		for _, url := range report.Failures {
			fmt.Printf("failed: %s\n", url)
		}
		return nil
	},
}

func init() {
	migrateImagesCmd.Flags().StringVar(&migrateCollection, "collection", "posts", "collection to migrate (posts or projects)")
	migrateImagesCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "report remote references without downloading or rewriting")
	rootCmd.AddCommand(migrateImagesCmd)
}
