// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// maxImagePixels caps decoded size to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000

	// uploadsDirName is the subdirectory of the public tree that holds
	// uploaded assets, one subdirectory per upload kind.
	uploadsDirName = "uploads"
)

// UploadKinds are the accepted type-scoped upload destinations.
var UploadKinds = map[string]bool{
	"blog":    true,
	"project": true,
}

// allowedImageTypes defines MIME types accepted for upload.
var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// rasterTypes are image types the decoders can dimension-check. SVG is
// vector and skipped.
var rasterTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageStore writes uploaded binary assets under the public assets tree.
// No metadata record is kept beyond the file itself; callers reference
// the returned public URL path from front matter or body Markdown.
type ImageStore struct {
	publicDir string
}

// NewImageStore creates an ImageStore rooted at the public assets directory.
func NewImageStore(publicDir string) *ImageStore {
	return &ImageStore{publicDir: publicDir}
}

// Save validates and writes an uploaded image under the kind-scoped
// uploads subdirectory, returning the public URL path. The filename is
// collision-resistant (timestamp plus random suffix) and the extension
// comes from the sniffed content type, never from the client's filename.
func (s *ImageStore) Save(data []byte, declaredName, kind string) (string, error) {
	if !UploadKinds[kind] {
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidUpload, kind)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidUpload)
	}

	contentType := sniffImageType(data, declaredName)
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: file type %q is not allowed", ErrInvalidUpload, contentType)
	}

	if rasterTypes[contentType] {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("%w: decode image: %v", ErrInvalidUpload, err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
			return "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidUpload, cfg.Width, cfg.Height, maxImagePixels)
		}
	}

	name := fmt.Sprintf("%s-%s%s",
		time.Now().Format("20060102150405"),
		uuid.New().String()[:8],
		extensionFromType(contentType),
	)

	dir := filepath.Join(s.publicDir, uploadsDirName, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return "/" + uploadsDirName + "/" + kind + "/" + name, nil
}

// UploadsDir returns the on-disk directory serving /uploads URLs.
func (s *ImageStore) UploadsDir() string {
	return filepath.Join(s.publicDir, uploadsDirName)
}

// sniffImageType detects the content type from the payload itself.
// SVG needs a special case: DetectContentType reports XML or plain text.
func sniffImageType(data []byte, declaredName string) string {
	contentType := http.DetectContentType(data)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if strings.HasSuffix(strings.ToLower(declaredName), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		return "image/svg+xml"
	}
	return contentType
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}
