// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/araddon/dateparse"
)

// Collection identifies a content collection on disk. The value is the
// subdirectory name under the content root.
type Collection string

const (
	CollectionPosts    Collection = "blog"
	CollectionProjects Collection = "projects"
)

// PostMeta is the front-matter record of a blog post. Timestamps are not
// part of the record; they come from filesystem metadata.
type PostMeta struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	PubDate     string `yaml:"pubDate" json:"pubDate"` // YYYY-MM-DD
	HeroImage   string `yaml:"heroImage,omitempty" json:"heroImage,omitempty"`
	ShowOnHome  bool   `yaml:"showOnHome" json:"showOnHome"`
}

// ApplyDefaults fills in schema defaults for omitted optional fields.
func (m *PostMeta) ApplyDefaults() {
	if m.PubDate == "" {
		m.PubDate = time.Now().Format("2006-01-02")
	}
}

// PublishedOn parses the post's publish date, tolerating loose formats in
// hand-edited files. The zero time is returned for unparseable dates so
// such posts sort last.
func (m *PostMeta) PublishedOn() time.Time {
	t, err := dateparse.ParseAny(m.PubDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ProjectMeta is the front-matter record of a portfolio project.
type ProjectMeta struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Order       int      `yaml:"order" json:"order"`
	Stack       []string `yaml:"stack" json:"stack"`
	GitHub      string   `yaml:"github,omitempty" json:"github,omitempty"`
	Demo        string   `yaml:"demo,omitempty" json:"demo,omitempty"`
	HeroImage   string   `yaml:"heroImage,omitempty" json:"heroImage,omitempty"`
}

// ApplyDefaults fills in schema defaults for omitted optional fields.
func (m *ProjectMeta) ApplyDefaults() {
	if m.Stack == nil {
		m.Stack = []string{}
	}
}

// Post is a full post record: front matter, body, and file metadata.
type Post struct {
	Slug string `json:"slug"`
	PostMeta
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Project is a full project record: front matter, body, and file metadata.
type Project struct {
	Slug string `json:"slug"`
	ProjectMeta
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostSummary is the list-view record: front matter only, no body.
type PostSummary struct {
	Slug string `json:"slug"`
	PostMeta
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectSummary is the list-view record: front matter only, no body.
type ProjectSummary struct {
	Slug string `json:"slug"`
	ProjectMeta
	UpdatedAt time.Time `json:"updatedAt"`
}
