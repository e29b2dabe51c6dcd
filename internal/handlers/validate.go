package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for content fields.
const (
	maxTitleLen = 300
	maxDescLen  = 1_000
	maxSlugLen  = 300
	maxBodyLen  = 500_000
)

// validateContent checks the fields shared by posts and projects and
// returns the first error found, or "".
func validateContent(title, description, slug, body string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(description) == "" {
		return "Description is required."
	}
	if utf8.RuneCountInString(description) > maxDescLen {
		return "Description is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 500,000 characters)."
	}
	return ""
}
