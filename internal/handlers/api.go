// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON admin API for foliocms. Handlers
// receive their dependencies through the Admin struct and translate
// store failures into HTTP statuses at this boundary.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"foliocms/internal/ai"
	"foliocms/internal/github"
	"foliocms/internal/store"
)

// Admin groups the admin API handlers and their dependencies.
// comments and aiRegistry may be unconfigured; the corresponding
// endpoints fail with a missing-credential status, not a crash.
type Admin struct {
	posts      *store.PostStore
	projects   *store.ProjectStore
	images     *store.ImageStore
	comments   *github.Client
	aiRegistry *ai.Registry
	isProd     bool
}

// NewAdmin creates the admin handler group.
func NewAdmin(posts *store.PostStore, projects *store.ProjectStore, images *store.ImageStore, comments *github.Client, aiRegistry *ai.Registry, isProd bool) *Admin {
	return &Admin{
		posts:      posts,
		projects:   projects,
		images:     images,
		comments:   comments,
		aiRegistry: aiRegistry,
		isProd:     isProd,
	}
}

// guard repeats the production check inside every handler. The router
// blocks /api/admin in production already; this is the second layer.
func (a *Admin) guard(w http.ResponseWriter) bool {
	if a.isProd {
		writeError(w, http.StatusForbidden, "admin API is disabled in production")
		return false
	}
	return true
}

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError writes a {success:false, error} payload.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

// writeErrorHint writes an error payload with an extra hint field, used
// by the comments proxy to suggest a fix for configuration problems.
func writeErrorHint(w http.ResponseWriter, status int, msg, hint string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
		"hint":    hint,
	})
}

// mapStoreError translates a typed store failure into an HTTP response.
func mapStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidSlug):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("store operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
