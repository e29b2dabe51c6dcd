// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"foliocms/internal/store"
)

var listCmd = &cobra.Command{
	Use:       "list {posts|projects}",
	Short:     "List content in a collection",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"posts", "projects"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		switch args[0] {
		case "posts":
			return listPosts(cfg.ContentDir)
		case "projects":
			return listProjects(cfg.ContentDir)
		default:
			return fmt.Errorf("unknown collection %q, expected posts or projects", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listPosts(contentDir string) error {
	posts, err := store.NewPostStore(contentDir).List()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"SLUG", "TITLE", "PUBDATE", "HOME", "UPDATED"})
	for _, p := range posts {
		home := ""
		if p.ShowOnHome {
			home = "yes"
		}
		t.AppendRow(table.Row{p.Slug, p.Title, p.PubDate, home, p.UpdatedAt.Format("2006-01-02 15:04")})
	}
	t.Render()
	fmt.Printf("%d posts\n", len(posts))
	return nil
}

func listProjects(contentDir string) error {
	projects, err := store.NewProjectStore(contentDir).List()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"SLUG", "TITLE", "ORDER", "STACK", "UPDATED"})
	for _, p := range projects {
		t.AppendRow(table.Row{p.Slug, p.Title, p.Order, strings.Join(p.Stack, ", "), p.UpdatedAt.Format("2006-01-02 15:04")})
	}
	t.Render()
	fmt.Printf("%d projects\n", len(projects))
	return nil
}
