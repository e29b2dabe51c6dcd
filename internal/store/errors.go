// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import "errors"

// Typed failures surfaced by the content stores. HTTP handlers map these
// to status codes at the boundary; nothing here is retried.
var (
	// ErrInvalidSlug rejects identifiers that are unsafe to interpolate
	// into a filesystem path.
	ErrInvalidSlug = errors.New("invalid slug")

	// ErrNotFound means no file exists for the slug in the collection.
	ErrNotFound = errors.New("content not found")

	// ErrExists means a file for the slug already exists; create never
	// silently overwrites.
	ErrExists = errors.New("content already exists")

	// ErrInvalidUpload rejects an upload payload on validation grounds
	// (unknown kind, empty body, disallowed type, undecodable or oversized
	// image). Save failures not wrapping this sentinel are I/O faults.
	ErrInvalidUpload = errors.New("invalid upload")
)
