// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"

	"foliocms/internal/models"
	"foliocms/internal/store"
)

// postRequest is the JSON body shared by post create and update calls.
// Pointer fields distinguish "absent" from "set to the zero value" so
// partial updates only touch supplied fields.
type postRequest struct {
	Slug        string  `json:"slug"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PubDate     *string `json:"pubDate"`
	HeroImage   *string `json:"heroImage"`
	ShowOnHome  *bool   `json:"showOnHome"`
	Content     *string `json:"content"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Posts handles GET /api/admin/posts: the full list, or a single post
// when a slug query parameter is present.
func (a *Admin) Posts(w http.ResponseWriter, r *http.Request) {
	if !a.guard(w) {
		return
	}

	if postSlug := r.URL.Query().Get("slug"); postSlug != "" {
		post, err := a.posts.ReadOne(postSlug)
		if err != nil {
			mapStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": post})
		return
	}

	posts, err := a.posts.List()
	if err != nil {
		mapStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": posts})
}

// CreatePost handles POST /api/admin/posts.
func (a *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	if !a.guard(w) {
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if msg := validateContent(deref(req.Title), deref(req.Description), req.Slug, deref(req.Content)); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	meta := models.PostMeta{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		PubDate:     deref(req.PubDate),
		HeroImage:   deref(req.HeroImage),
	}
	if req.ShowOnHome != nil {
		meta.ShowOnHome = *req.ShowOnHome
	}

	assigned, err := a.posts.Create(meta, deref(req.Content), req.Slug)
	if err != nil {
		mapStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "slug": assigned})
}

// UpdatePost handles PUT /api/admin/posts. The slug comes from the body
// and never changes; only supplied fields are touched.
func (a *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	if !a.guard(w) {
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Slug == "" {
		writeError(w, http.StatusBadRequest, "slug is required")
		return
	}
	if req.Title != nil || req.Description != nil {
		title, desc := deref(req.Title), deref(req.Description)
		if req.Title != nil && title == "" {
			writeError(w, http.StatusBadRequest, "Title is required.")
			return
		}
		if req.Description != nil && desc == "" {
			writeError(w, http.StatusBadRequest, "Description is required.")
			return
		}
	}

	patch := store.PostPatch{
		Title:       req.Title,
		Description: req.Description,
		PubDate:     req.PubDate,
		HeroImage:   req.HeroImage,
		ShowOnHome:  req.ShowOnHome,
		Content:     req.Content,
	}
	if err := a.posts.Update(req.Slug, patch); err != nil {
		mapStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DeletePost handles DELETE /api/admin/posts?slug=.
func (a *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	if !a.guard(w) {
		return
	}

	postSlug := r.URL.Query().Get("slug")
	if postSlug == "" {
		writeError(w, http.StatusBadRequest, "slug query parameter is required")
		return
	}

	if err := a.posts.Delete(postSlug); err != nil {
		mapStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
