// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"foliocms/internal/ai"
	"foliocms/internal/slug"
)

// Slug handles POST /api/admin/slug: derive a slug from a title. Titles
// that already contain slug-able characters are handled locally; titles
// in scripts that kebab-case to nothing (Cyrillic, Arabic, emoji) are
// translated to English by the active AI provider first.
func (a *Admin) Slug(w http.ResponseWriter, r *http.Request) {
	if !a.guard(w) {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	if local := slug.Kebab(req.Title); local != "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"slug":       local,
			"translated": false,
		})
		return
	}

	translated, err := a.aiRegistry.TranslateTitle(r.Context(), req.Title)
	if err != nil {
		if errors.Is(err, ai.ErrNoProvider) {
			writeErrorHint(w, http.StatusServiceUnavailable,
				"no AI provider is configured for slug translation",
				"set an API key (for example OPENAI_API_KEY) or supply a slug manually")
			return
		}
		writeErrorHint(w, http.StatusBadGateway, err.Error(),
			"supply a slug manually or retry")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"slug":       slug.Generate(translated),
		"translated": true,
	})
}
