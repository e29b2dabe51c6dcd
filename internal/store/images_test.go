// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pngBytes encodes a small valid PNG for upload tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestImageSave_WritesUnderKindScopedDir(t *testing.T) {
	dir := t.TempDir()
	images := NewImageStore(dir)

	url, err := images.Save(pngBytes(t), "photo.png", "blog")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasPrefix(url, "/uploads/blog/") {
		t.Errorf("url = %q, want /uploads/blog/ prefix", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want .png extension from sniffed type", url)
	}

	onDisk := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "/")))
	if _, err := os.Stat(onDisk); err != nil {
		t.Errorf("uploaded file missing on disk: %v", err)
	}
}

func TestImageSave_CollisionResistantNames(t *testing.T) {
	images := NewImageStore(t.TempDir())

	a, err := images.Save(pngBytes(t), "same.png", "project")
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	b, err := images.Save(pngBytes(t), "same.png", "project")
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if a == b {
		t.Errorf("two uploads produced the same URL %q", a)
	}
}

func TestImageSave_RejectsUnknownKind(t *testing.T) {
	images := NewImageStore(t.TempDir())

	_, err := images.Save(pngBytes(t), "photo.png", "avatars")
	if !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("Save with unknown kind: err = %v, want ErrInvalidUpload", err)
	}
}

func TestImageSave_RejectsNonImagePayload(t *testing.T) {
	images := NewImageStore(t.TempDir())

	_, err := images.Save([]byte("#!/bin/sh\nrm -rf /\n"), "innocent.png", "blog")
	if !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("Save with script payload: err = %v, want ErrInvalidUpload", err)
	}
}

func TestImageSave_RejectsEmptyPayload(t *testing.T) {
	images := NewImageStore(t.TempDir())

	_, err := images.Save(nil, "empty.png", "blog")
	if !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("Save with empty payload: err = %v, want ErrInvalidUpload", err)
	}
}

func TestImageSave_WriteFailureIsNotValidation(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	images := NewImageStore(dir)
	_, err := images.Save(pngBytes(t), "photo.png", "blog")
	if err == nil {
		t.Fatal("Save into read-only dir succeeded, want error")
	}
	if errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("I/O failure reported as ErrInvalidUpload: %v", err)
	}
}

func TestImageSave_AcceptsSVGByName(t *testing.T) {
	images := NewImageStore(t.TempDir())

	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"><rect width="1" height="1"/></svg>`)
	url, err := images.Save(svg, "icon.svg", "blog")
	if err != nil {
		t.Fatalf("Save svg: %v", err)
	}
	if !strings.HasSuffix(url, ".svg") {
		t.Errorf("url = %q, want .svg extension", url)
	}
}
