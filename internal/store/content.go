// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store is the sole reader/mutator of the on-disk content tree.
// Each collection (posts, projects) gets its own store over a directory
// of markdown files; all path handling and slug safety checks live here.
//
// The filesystem is the only persisted state. There is no locking and no
// cache: every read re-parses from disk, and two overlapping writes for
// the same slug race at the filesystem level (last writer wins). That is
// the accepted model for a single-operator admin tool.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"foliocms/internal/models"
	"foliocms/internal/slug"
)

// collectionDir resolves a collection's directory under the content root.
func collectionDir(contentDir string, c models.Collection) string {
	return filepath.Join(contentDir, string(c))
}

// newFilePath is where a freshly created content file lands: always the
// primary extension.
func newFilePath(dir, s string) string {
	return filepath.Join(dir, s+contentExtensions[0])
}

// contentExtensions lists the recognized content file extensions in read
// priority order. A slug may have at most one of them on disk: create
// refuses to add a second variant, so the priority only matters for trees
// populated outside this tool.
var contentExtensions = []string{".md", ".mdx"}

// checkSlug validates an identifier before any filesystem access. Path
// separators and traversal sequences are rejected outright, independent
// of the character-set check.
func checkSlug(s string) error {
	if s == "" ||
		strings.ContainsAny(s, "/\\") ||
		strings.Contains(s, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, s)
	}
	if !slug.IsValid(s) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, s)
	}
	return nil
}

// findFile returns the path of the content file for a slug, trying each
// recognized extension in priority order.
func findFile(dir, s string) (string, bool) {
	for _, ext := range contentExtensions {
		path := filepath.Join(dir, s+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// anyExists reports whether any recognized extension is present for a slug.
func anyExists(dir, s string) bool {
	_, ok := findFile(dir, s)
	return ok
}

// contentFile pairs a slug with the file that backs it.
type contentFile struct {
	slug string
	path string
}

// listFiles enumerates the collection directory, returning one entry per
// slug. When both extensions exist for a slug (a state create forbids but
// external edits can produce), the higher-priority extension wins.
func listFiles(dir string) ([]contentFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read collection dir: %w", err)
	}

	rank := func(ext string) int {
		for i, e := range contentExtensions {
			if e == ext {
				return i
			}
		}
		return len(contentExtensions)
	}

	best := make(map[string]contentFile)
	bestRank := make(map[string]int)
	var order []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		r := rank(ext)
		if r >= len(contentExtensions) {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ext)
		if prev, seen := bestRank[stem]; seen && prev <= r {
			continue
		}
		if _, seen := bestRank[stem]; !seen {
			order = append(order, stem)
		}
		best[stem] = contentFile{slug: stem, path: filepath.Join(dir, entry.Name())}
		bestRank[stem] = r
	}

	files := make([]contentFile, 0, len(order))
	for _, stem := range order {
		files = append(files, best[stem])
	}
	return files, nil
}

// fileTimes derives createdAt/updatedAt for a content file. Creation time
// is not portably available, so both come from the modification time; the
// distinction only matters on platforms that expose birth time, which this
// deliberately does not chase.
func fileTimes(path string) (created, updated time.Time, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("stat content file: %w", err)
	}
	return info.ModTime(), info.ModTime(), nil
}

// writeFile serializes and writes a content file, creating the collection
// directory on first use. Exactly one write per mutating operation.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create collection dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write content file: %w", err)
	}
	return nil
}
