// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// ParseError signals a content file whose front-matter block is missing
// or malformed. It wraps the underlying parser error so callers can still
// inspect the cause, while being distinguishable from plain I/O failures.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("front matter %s: %v", e.Reason, e.Err)
	}
	return "front matter " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseDocument splits a content file into its front-matter record and
// Markdown body. The front-matter block is required: a file without the
// leading "---" delimiter pair fails loudly with a *ParseError instead of
// silently treating the whole file as body text. Missing optional fields
// are left at their zero values; defaults are the caller's concern.
func ParseDocument(src []byte, meta any) (string, error) {
	rest, err := frontmatter.MustParse(bytes.NewReader(src), meta)
	if err != nil {
		return "", &ParseError{Reason: "parse", Err: err}
	}
	return strings.TrimLeft(string(rest), "\n"), nil
}

// SerializeDocument renders a front-matter record and Markdown body back
// into file form: a YAML block delimited by "---" lines, a blank line, and
// the body. The output always reparses into the same record (round-trip
// safety); serialization failure means the record itself is broken and is
// surfaced before anything touches the filesystem.
func SerializeDocument(meta any, body string) ([]byte, error) {
	fm, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	body = strings.TrimLeft(body, "\n")
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return []byte(fmt.Sprintf("---\n%s---\n\n%s", fm, body)), nil
}
