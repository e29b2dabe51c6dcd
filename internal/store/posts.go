// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"fmt"
	"os"
	"sort"

	"foliocms/internal/markdown"
	"foliocms/internal/models"
	"foliocms/internal/slug"
)

// PostStore handles all post-related filesystem operations for the blog
// collection.
type PostStore struct {
	dir string
}

// NewPostStore creates a PostStore over the blog collection directory.
func NewPostStore(contentDir string) *PostStore {
	return &PostStore{dir: collectionDir(contentDir, models.CollectionPosts)}
}

// Dir returns the collection directory path.
func (s *PostStore) Dir() string { return s.dir }

// List enumerates every post, parsing front matter only (the body is
// discarded), ordered by publish date descending with slug as tiebreaker.
func (s *PostStore) List() ([]models.PostSummary, error) {
	files, err := listFiles(s.dir)
	if err != nil {
		return nil, err
	}

	var items []models.PostSummary
	for _, f := range files {
		data, err := os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("read post %s: %w", f.slug, err)
		}
		var meta models.PostMeta
		if _, err := markdown.ParseDocument(data, &meta); err != nil {
			return nil, fmt.Errorf("post %s: %w", f.slug, err)
		}
		_, updated, err := fileTimes(f.path)
		if err != nil {
			return nil, err
		}
		items = append(items, models.PostSummary{Slug: f.slug, PostMeta: meta, UpdatedAt: updated})
	}

	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].PublishedOn(), items[j].PublishedOn()
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return items[i].Slug < items[j].Slug
	})
	return items, nil
}

// ReadOne loads a full post by slug. The slug is validated before any
// filesystem access; timestamps come from file metadata, not front matter.
func (s *PostStore) ReadOne(postSlug string) (*models.Post, error) {
	if err := checkSlug(postSlug); err != nil {
		return nil, err
	}

	path, ok := findFile(s.dir, postSlug)
	if !ok {
		return nil, fmt.Errorf("%w: post %q", ErrNotFound, postSlug)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read post %s: %w", postSlug, err)
	}

	var meta models.PostMeta
	body, err := markdown.ParseDocument(data, &meta)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", postSlug, err)
	}

	created, updated, err := fileTimes(path)
	if err != nil {
		return nil, err
	}

	return &models.Post{
		Slug:      postSlug,
		PostMeta:  meta,
		Content:   body,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// Create writes a new post file and returns the assigned slug. The slug
// is derived from the title unless explicitly supplied. Creating over an
// existing slug fails with ErrExists regardless of which recognized
// extension the existing file uses.
func (s *PostStore) Create(meta models.PostMeta, content, explicitSlug string) (string, error) {
	postSlug := explicitSlug
	if postSlug == "" {
		postSlug = slug.Generate(meta.Title)
	}
	if err := checkSlug(postSlug); err != nil {
		return "", err
	}
	if anyExists(s.dir, postSlug) {
		return "", fmt.Errorf("%w: post %q", ErrExists, postSlug)
	}

	meta.ApplyDefaults()
	data, err := markdown.SerializeDocument(meta, content)
	if err != nil {
		return "", err
	}
	if err := writeFile(newFilePath(s.dir, postSlug), data); err != nil {
		return "", err
	}
	return postSlug, nil
}

// PostPatch carries a partial update; nil fields are left unchanged.
type PostPatch struct {
	Title       *string
	Description *string
	PubDate     *string
	HeroImage   *string
	ShowOnHome  *bool
	Content     *string
}

// Update merges a patch over the existing post and rewrites the file in
// place. The slug never changes. The file is only overwritten after the
// merged record re-serializes successfully, so a failed update leaves the
// previous content untouched.
func (s *PostStore) Update(postSlug string, patch PostPatch) error {
	if err := checkSlug(postSlug); err != nil {
		return err
	}

	path, ok := findFile(s.dir, postSlug)
	if !ok {
		return fmt.Errorf("%w: post %q", ErrNotFound, postSlug)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read post %s: %w", postSlug, err)
	}

	var meta models.PostMeta
	body, err := markdown.ParseDocument(data, &meta)
	if err != nil {
		return fmt.Errorf("post %s: %w", postSlug, err)
	}

	if patch.Title != nil {
		meta.Title = *patch.Title
	}
	if patch.Description != nil {
		meta.Description = *patch.Description
	}
	if patch.PubDate != nil {
		meta.PubDate = *patch.PubDate
	}
	if patch.HeroImage != nil {
		meta.HeroImage = *patch.HeroImage
	}
	if patch.ShowOnHome != nil {
		meta.ShowOnHome = *patch.ShowOnHome
	}
	if patch.Content != nil {
		body = *patch.Content
	}

	out, err := markdown.SerializeDocument(meta, body)
	if err != nil {
		return err
	}
	return writeFile(path, out)
}

// Delete unlinks the post file for a slug.
func (s *PostStore) Delete(postSlug string) error {
	if err := checkSlug(postSlug); err != nil {
		return err
	}
	path, ok := findFile(s.dir, postSlug)
	if !ok {
		return fmt.Errorf("%w: post %q", ErrNotFound, postSlug)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete post %s: %w", postSlug, err)
	}
	return nil
}
