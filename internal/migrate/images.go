// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package migrate localizes remote images referenced by content files:
// it downloads each remote URL found in front matter or body Markdown,
// stores a local copy under the public uploads tree, and rewrites the
// references. Run from the CLI only, never from the HTTP API.
package migrate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"foliocms/internal/models"
	"foliocms/internal/store"
)

// remoteImageRef matches Markdown image syntax with an absolute http(s)
// URL. Group 1 is the URL.
var remoteImageRef = regexp.MustCompile(`!\[[^\]]*\]\((https?://[^)\s]+)\)`)

// downloadAttempts bounds the retry loop per URL. Attempts run
// back-to-back with no delay; a flaky host either recovers immediately
// or the URL is reported as a failure.
const downloadAttempts = 3

// maxDownloadSize caps a single fetched image (20 MB).
const maxDownloadSize = 20 << 20

// Migrator downloads remote images and rewrites content references.
type Migrator struct {
	posts    *store.PostStore
	projects *store.ProjectStore
	images   *store.ImageStore
	client   *http.Client
}

// New creates a Migrator over the given stores.
func New(posts *store.PostStore, projects *store.ProjectStore, images *store.ImageStore) *Migrator {
	return &Migrator{
		posts:    posts,
		projects: projects,
		images:   images,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Report summarizes one migration run.
type Report struct {
	Scanned    int      // content files inspected
	Rewritten  int      // content files updated
	Downloaded int      // images fetched and stored
	Failures   []string // URLs that could not be migrated
}

// Run migrates one collection. With dryRun set, remote references are
// reported but nothing is downloaded or rewritten.
func (m *Migrator) Run(ctx context.Context, collection models.Collection, dryRun bool) (*Report, error) {
	switch collection {
	case models.CollectionPosts:
		return m.runPosts(ctx, dryRun)
	case models.CollectionProjects:
		return m.runProjects(ctx, dryRun)
	default:
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
}

func (m *Migrator) runPosts(ctx context.Context, dryRun bool) (*Report, error) {
	summaries, err := m.posts.List()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, s := range summaries {
		post, err := m.posts.ReadOne(s.Slug)
		if err != nil {
			return nil, err
		}
		report.Scanned++

		hero, body, changed := m.migrateRefs(ctx, post.HeroImage, post.Content, "blog", dryRun, report)
		if !changed || dryRun {
			continue
		}

		patch := store.PostPatch{HeroImage: &hero, Content: &body}
		if err := m.posts.Update(post.Slug, patch); err != nil {
			return nil, fmt.Errorf("update %s: %w", post.Slug, err)
		}
		report.Rewritten++
		slog.Info("migrated post images", "slug", post.Slug)
	}
	return report, nil
}

func (m *Migrator) runProjects(ctx context.Context, dryRun bool) (*Report, error) {
	summaries, err := m.projects.List()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, s := range summaries {
		project, err := m.projects.ReadOne(s.Slug)
		if err != nil {
			return nil, err
		}
		report.Scanned++

		hero, body, changed := m.migrateRefs(ctx, project.HeroImage, project.Content, "project", dryRun, report)
		if !changed || dryRun {
			continue
		}

		patch := store.ProjectPatch{HeroImage: &hero, Content: &body}
		if err := m.projects.Update(project.Slug, patch); err != nil {
			return nil, fmt.Errorf("update %s: %w", project.Slug, err)
		}
		report.Rewritten++
		slog.Info("migrated project images", "slug", project.Slug)
	}
	return report, nil
}

// migrateRefs localizes the hero image and every remote body reference.
// It returns the rewritten values and whether anything changed. Failed
// downloads are recorded in the report and the original URL is kept.
func (m *Migrator) migrateRefs(ctx context.Context, hero, body, kind string, dryRun bool, report *Report) (string, string, bool) {
	changed := false

	if isRemote(hero) {
		if dryRun {
			changed = true
		} else if local, err := m.localize(ctx, hero, kind); err != nil {
			report.Failures = append(report.Failures, hero)
			slog.Warn("hero image download failed", "url", hero, "error", err)
		} else {
			hero = local
			report.Downloaded++
			changed = true
		}
	}

	// Replacements are collected first so each URL is fetched once even
	// when referenced multiple times.
	replacements := map[string]string{}
	for _, match := range remoteImageRef.FindAllStringSubmatch(body, -1) {
		url := match[1]
		if _, seen := replacements[url]; seen {
			continue
		}
		if dryRun {
			replacements[url] = url
			changed = true
			continue
		}
		local, err := m.localize(ctx, url, kind)
		if err != nil {
			report.Failures = append(report.Failures, url)
			slog.Warn("image download failed", "url", url, "error", err)
			continue
		}
		replacements[url] = local
		report.Downloaded++
		changed = true
	}
	if !dryRun {
		for url, local := range replacements {
			body = strings.ReplaceAll(body, "("+url+")", "("+local+")")
		}
	}

	return hero, body, changed
}

// localize downloads a remote image with a bounded retry and stores it
// locally, returning the public URL path.
func (m *Migrator) localize(ctx context.Context, url, kind string) (string, error) {
	var data []byte

	noDelay := retry.BackoffFunc(func() (time.Duration, bool) { return 0, false })
	err := retry.Do(ctx, retry.WithMaxRetries(downloadAttempts-1, noDelay), func(ctx context.Context) error {
		fetched, err := m.fetch(ctx, url)
		if err != nil {
			return retry.RetryableError(err)
		}
		data = fetched
		return nil
	})
	if err != nil {
		return "", err
	}

	return m.images.Save(data, path.Base(url), kind)
}

func (m *Migrator) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("fetch %s: exceeds %d bytes", url, maxDownloadSize)
	}
	return data, nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
