// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings,
// including mixed-script titles. Slugs double as filename stems, so the
// allowed alphabet is restricted to lowercase ASCII letters, digits, CJK
// ideographs, and hyphens.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Placeholder is returned by Generate when a title yields no usable
// characters at all (e.g. pure punctuation or emoji).
const Placeholder = "untitled"

var (
	// disallowedRuns matches every run of characters outside the slug
	// alphabet; each run collapses to a single hyphen.
	disallowedRuns = regexp.MustCompile(`[^a-z0-9\p{Han}]+`)
	// validSlug is the complete shape of an acceptable slug.
	validSlug = regexp.MustCompile(`^[a-z0-9\p{Han}-]+$`)
)

// stripMarks decomposes accented Latin characters (NFD) and removes the
// resulting combining marks, so "Café Noël" slugs as "cafe-noel".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Kebab lowercases and kebab-cases the given string without any fallback.
// The result contains only [a-z0-9<CJK>-] and may be empty.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Kebab(s string) string {
	normalized, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Normalization only fails on malformed input; fall back to the raw
		// string, which the character filter below still sanitizes.
		normalized = s
	}
	result := strings.ToLower(normalized)
	result = disallowedRuns.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Generate creates a slug from the given string, falling back to
// Placeholder when nothing usable survives sanitization. It never fails.
func Generate(s string) string {
	if k := Kebab(s); k != "" {
		return k
	}
	return Placeholder
}

// IsValid reports whether s is a well-formed slug: non-empty and made
// exclusively of the slug alphabet. Callers must reject invalid slugs
// before interpolating them into filesystem paths.
func IsValid(s string) bool {
	return validSlug.MatchString(s)
}
