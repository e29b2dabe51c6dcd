// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"foliocms/internal/github"
)

// Comments handles GET /api/admin/comments, proxying GitHub Discussions.
// Query forms:
//
//	?number=N        one discussion with comments and replies
//	?stats=1         aggregate stats across the category
//	?first=&after=   paginated list (defaults apply)
func (a *Admin) Comments(w http.ResponseWriter, r *http.Request) {
	if !a.guard(w) {
		return
	}

	if !a.comments.HasToken() {
		writeErrorHint(w, http.StatusServiceUnavailable,
			"GitHub access token is not configured",
			"set GITHUB_TOKEN in the environment to enable the comments proxy")
		return
	}

	q := r.URL.Query()
	ctx := r.Context()

	switch {
	case q.Get("number") != "":
		number, err := strconv.Atoi(q.Get("number"))
		if err != nil || number <= 0 {
			writeError(w, http.StatusBadRequest, "number must be a positive integer")
			return
		}
		d, err := a.comments.Discussion(ctx, number)
		if err != nil {
			a.commentsError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": d})

	case q.Get("stats") != "":
		stats, err := a.comments.Stats(ctx)
		if err != nil {
			a.commentsError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": stats})

	default:
		first, _ := strconv.Atoi(q.Get("first"))
		page, err := a.comments.ListDiscussions(ctx, first, q.Get("after"))
		if err != nil {
			a.commentsError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": page})
	}
}

func (a *Admin) commentsError(w http.ResponseWriter, err error) {
	if errors.Is(err, github.ErrMissingToken) {
		writeErrorHint(w, http.StatusServiceUnavailable,
			"GitHub access token is not configured",
			"set GITHUB_TOKEN in the environment to enable the comments proxy")
		return
	}
	writeErrorHint(w, http.StatusBadGateway, err.Error(),
		"check the repository, category ID, and token scopes")
}
