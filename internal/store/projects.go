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

// ProjectStore handles all project-related filesystem operations for the
// portfolio collection.
type ProjectStore struct {
	dir string
}

// NewProjectStore creates a ProjectStore over the projects collection
// directory.
func NewProjectStore(contentDir string) *ProjectStore {
	return &ProjectStore{dir: collectionDir(contentDir, models.CollectionProjects)}
}

// Dir returns the collection directory path.
func (s *ProjectStore) Dir() string { return s.dir }

// List enumerates every project, front matter only, ordered by the order
// field ascending then slug.
func (s *ProjectStore) List() ([]models.ProjectSummary, error) {
	files, err := listFiles(s.dir)
	if err != nil {
		return nil, err
	}

	var items []models.ProjectSummary
	for _, f := range files {
		data, err := os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("read project %s: %w", f.slug, err)
		}
		var meta models.ProjectMeta
		if _, err := markdown.ParseDocument(data, &meta); err != nil {
			return nil, fmt.Errorf("project %s: %w", f.slug, err)
		}
		_, updated, err := fileTimes(f.path)
		if err != nil {
			return nil, err
		}
		items = append(items, models.ProjectSummary{Slug: f.slug, ProjectMeta: meta, UpdatedAt: updated})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].Slug < items[j].Slug
	})
	return items, nil
}

// ReadOne loads a full project by slug.
func (s *ProjectStore) ReadOne(projectSlug string) (*models.Project, error) {
	if err := checkSlug(projectSlug); err != nil {
		return nil, err
	}

	path, ok := findFile(s.dir, projectSlug)
	if !ok {
		return nil, fmt.Errorf("%w: project %q", ErrNotFound, projectSlug)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project %s: %w", projectSlug, err)
	}

	var meta models.ProjectMeta
	body, err := markdown.ParseDocument(data, &meta)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", projectSlug, err)
	}

	created, updated, err := fileTimes(path)
	if err != nil {
		return nil, err
	}

	return &models.Project{
		Slug:        projectSlug,
		ProjectMeta: meta,
		Content:     body,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

// Create writes a new project file and returns the assigned slug.
func (s *ProjectStore) Create(meta models.ProjectMeta, content, explicitSlug string) (string, error) {
	projectSlug := explicitSlug
	if projectSlug == "" {
		projectSlug = slug.Generate(meta.Title)
	}
	if err := checkSlug(projectSlug); err != nil {
		return "", err
	}
	if anyExists(s.dir, projectSlug) {
		return "", fmt.Errorf("%w: project %q", ErrExists, projectSlug)
	}

	meta.ApplyDefaults()
	data, err := markdown.SerializeDocument(meta, content)
	if err != nil {
		return "", err
	}
	if err := writeFile(newFilePath(s.dir, projectSlug), data); err != nil {
		return "", err
	}
	return projectSlug, nil
}

// ProjectPatch carries a partial update; nil fields are left unchanged.
type ProjectPatch struct {
	Title       *string
	Description *string
	Order       *int
	Stack       *[]string
	GitHub      *string
	Demo        *string
	HeroImage   *string
	Content     *string
}

// Update merges a patch over the existing project and rewrites the file in
// place. The slug never changes; the write happens only after the merged
// record re-serializes successfully.
func (s *ProjectStore) Update(projectSlug string, patch ProjectPatch) error {
	if err := checkSlug(projectSlug); err != nil {
		return err
	}

	path, ok := findFile(s.dir, projectSlug)
	if !ok {
		return fmt.Errorf("%w: project %q", ErrNotFound, projectSlug)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read project %s: %w", projectSlug, err)
	}

	var meta models.ProjectMeta
	body, err := markdown.ParseDocument(data, &meta)
	if err != nil {
		return fmt.Errorf("project %s: %w", projectSlug, err)
	}

	if patch.Title != nil {
		meta.Title = *patch.Title
	}
	if patch.Description != nil {
		meta.Description = *patch.Description
	}
	if patch.Order != nil {
		meta.Order = *patch.Order
	}
	if patch.Stack != nil {
		meta.Stack = *patch.Stack
	}
	if patch.GitHub != nil {
		meta.GitHub = *patch.GitHub
	}
	if patch.Demo != nil {
		meta.Demo = *patch.Demo
	}
	if patch.HeroImage != nil {
		meta.HeroImage = *patch.HeroImage
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

// Delete unlinks the project file for a slug.
func (s *ProjectStore) Delete(projectSlug string) error {
	if err := checkSlug(projectSlug); err != nil {
		return err
	}
	path, ok := findFile(s.dir, projectSlug)
	if !ok {
		return fmt.Errorf("%w: project %q", ErrNotFound, projectSlug)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete project %s: %w", projectSlug, err)
	}
	return nil
}
