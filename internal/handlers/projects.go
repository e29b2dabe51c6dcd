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

// projectRequest is the JSON body shared by project create and update
// calls. Pointer fields distinguish absent fields from zero values.
type projectRequest struct {
	Slug        string    `json:"slug"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Order       *int      `json:"order"`
	Stack       *[]string `json:"stack"`
	GitHub      *string   `json:"github"`
	Demo        *string   `json:"demo"`
	HeroImage   *string   `json:"heroImage"`
	Content     *string   `json:"content"`
}

// Projects handles GET /api/admin/projects: the full list, or a single
// project when a slug query parameter is present.
func (a *Admin) Projects(w http.ResponseWriter, r *http.Request) {
	if !a.guard(w) {
		return
	}

	if projectSlug := r.URL.Query().Get("slug"); projectSlug != "" {
		project, err := a.projects.ReadOne(projectSlug)
		if err != nil {
			mapStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": project})
		return
	}

	projects, err := a.projects.List()
	if err != nil {
		mapStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": projects})
}

// CreateProject handles POST /api/admin/projects.
func (a *Admin) CreateProject(w http.ResponseWriter, r *http.Request) {
	if !a.guard(w) {
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if msg := validateContent(deref(req.Title), deref(req.Description), req.Slug, deref(req.Content)); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	meta := models.ProjectMeta{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		GitHub:      deref(req.GitHub),
		Demo:        deref(req.Demo),
		HeroImage:   deref(req.HeroImage),
	}
	if req.Order != nil {
		meta.Order = *req.Order
	}
	if req.Stack != nil {
		meta.Stack = *req.Stack
	}

	assigned, err := a.projects.Create(meta, deref(req.Content), req.Slug)
	if err != nil {
		mapStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "slug": assigned})
}

// UpdateProject handles PUT /api/admin/projects.
func (a *Admin) UpdateProject(w http.ResponseWriter, r *http.Request) {
	if !a.guard(w) {
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Slug == "" {
		writeError(w, http.StatusBadRequest, "slug is required")
		return
	}
	if req.Title != nil && deref(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required.")
		return
	}
	if req.Description != nil && deref(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "Description is required.")
		return
	}

	patch := store.ProjectPatch{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		Stack:       req.Stack,
		GitHub:      req.GitHub,
		Demo:        req.Demo,
		HeroImage:   req.HeroImage,
		Content:     req.Content,
	}
	if err := a.projects.Update(req.Slug, patch); err != nil {
		mapStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DeleteProject handles DELETE /api/admin/projects?slug=.
func (a *Admin) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if !a.guard(w) {
		return
	}

	projectSlug := r.URL.Query().Get("slug")
	if projectSlug == "" {
		writeError(w, http.StatusBadRequest, "slug query parameter is required")
		return
	}

	if err := a.projects.Delete(projectSlug); err != nil {
		mapStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
