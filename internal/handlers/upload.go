// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"foliocms/internal/store"
)

// maxUploadSize is the maximum allowed image upload size (20 MB).
const maxUploadSize = 20 << 20

// Upload handles POST /api/admin/upload: a multipart form with a file
// part and a type field selecting the destination (blog or project).
func (a *Admin) Upload(w http.ResponseWriter, r *http.Request) {
	if !a.guard(w) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 20 MB.")
		return
	}

	kind := r.FormValue("type")
	if !store.UploadKinds[kind] {
		writeError(w, http.StatusBadRequest, `type must be "blog" or "project"`)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}

	url, err := a.images.Save(data, header.Filename, kind)
	if err != nil {
		if errors.Is(err, store.ErrInvalidUpload) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("save upload", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save file.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "url": url})
}
