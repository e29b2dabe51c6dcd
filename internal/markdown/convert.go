// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// trailingSpace strips whitespace hanging off the end of each line.
	trailingSpace = regexp.MustCompile(`(?m)[ \t]+$`)
	// blankRuns collapses runs of blank lines down to a single blank line.
	blankRuns = regexp.MustCompile(`\n{3,}`)
	// spaceRuns normalizes intra-text whitespace (including newlines from
	// pretty-printed HTML) to single spaces.
	spaceRuns = regexp.MustCompile(`[ \t\r\n]+`)
)

// FromHTML converts an HTML document fragment (the rich-text editor's
// document model) back into Markdown. Each supported node kind has one
// conversion arm; three cases get special handling:
//
//   - <img> becomes ![alt](src), alt text verbatim, src never dropped;
//   - task-list items become "- [x] " / "- [ ] " from the checkbox's
//     checked attribute;
//   - visually-empty paragraphs collapse to a blank line instead of an
//     empty-paragraph marker.
//
// A post-pass collapses runs of blank lines and strips trailing
// whitespace per line. Empty input yields empty output.
func FromHTML(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	body := findElement(doc, atom.Body)
	if body == nil {
		return "", nil
	}

	out := blockChildren(body, "")
	out = trailingSpace.ReplaceAllString(out, "")
	out = blankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out), nil
}

// blockChildren renders the block-level children of n in document order.
func blockChildren(n *html.Node, indent string) string {
	var b strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		b.WriteString(renderBlock(ch, indent))
	}
	return b.String()
}

// renderBlock converts one block-level node into Markdown, including its
// trailing block separator.
func renderBlock(n *html.Node, indent string) string {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(collapseSpace(n.Data)); t != "" {
			return indent + t + "\n\n"
		}
		return ""
	case html.ElementNode:
		// handled below
	default:
		return ""
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		text := strings.TrimSpace(inlineChildren(n))
		return indent + strings.Repeat("#", level) + " " + text + "\n\n"

	case atom.P:
		text := strings.TrimSpace(inlineChildren(n))
		if text == "" {
			// Empty paragraph: just a blank line, no marker.
			return "\n"
		}
		return indent + text + "\n\n"

	case atom.Hr:
		return indent + "---\n\n"

	case atom.Br:
		return "\n"

	case atom.Pre:
		return codeBlock(n, indent)

	case atom.Blockquote:
		return blockquote(n, indent)

	case atom.Ul:
		return list(n, indent, false)

	case atom.Ol:
		return list(n, indent, true)

	case atom.Img:
		return indent + imageMarkdown(n) + "\n\n"

	case atom.Figure, atom.Div, atom.Section, atom.Article, atom.Main:
		return blockChildren(n, indent)

	case atom.Script, atom.Style, atom.Head, atom.Template:
		return ""

	default:
		// Unknown element in block position: flatten to paragraph text.
		if text := strings.TrimSpace(inlineChildren(n)); text != "" {
			return indent + text + "\n\n"
		}
		return ""
	}
}

// inlineChildren renders the inline content of n.
func inlineChildren(n *html.Node) string {
	var b strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		b.WriteString(inlineNode(ch))
	}
	return b.String()
}

// inlineNode converts one inline node into Markdown.
func inlineNode(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return collapseSpace(n.Data)
	case html.ElementNode:
		// handled below
	default:
		return ""
	}

	switch n.DataAtom {
	case atom.Strong, atom.B:
		return wrap(inlineChildren(n), "**")
	case atom.Em, atom.I:
		return wrap(inlineChildren(n), "*")
	case atom.Del, atom.S, atom.Strike:
		return wrap(inlineChildren(n), "~~")
	case atom.Code:
		return "`" + textContent(n) + "`"
	case atom.A:
		text := inlineChildren(n)
		href := attr(n, "href")
		if href == "" {
			return text
		}
		return "[" + text + "](" + href + ")"
	case atom.Img:
		return imageMarkdown(n)
	case atom.Br:
		return "\n"
	case atom.Input:
		// Task-list checkboxes are reflected in the list marker, not here.
		return ""
	default:
		return inlineChildren(n)
	}
}

// imageMarkdown renders an <img> as ![alt](src). The alt text is carried
// over verbatim and the src is always emitted, even when empty, so no
// image reference is ever lost in conversion.
func imageMarkdown(n *html.Node) string {
	return "![" + attr(n, "alt") + "](" + attr(n, "src") + ")"
}

// wrap surrounds non-empty inline text with an emphasis delimiter.
func wrap(text, delim string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	return delim + text + delim
}

// list renders a <ul> or <ol>, including task-list items.
func list(n *html.Node, indent string, ordered bool) string {
	idx := 1
	if v := attr(n, "start"); v != "" {
		if start, err := strconv.Atoi(v); err == nil && start > 0 {
			idx = start
		}
	}

	var b strings.Builder
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}

		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", idx)
			idx++
		}
		if box := findCheckbox(li); box != nil {
			if hasAttr(box, "checked") {
				marker = "- [x] "
			} else {
				marker = "- [ ] "
			}
		}

		// Child blocks align under the item's content column: two
		// columns past a bullet ("- ", with "[x]" counting as content),
		// the full marker width for ordered items.
		width := 2
		if ordered {
			width = len(marker)
		}
		childIndent := indent + strings.Repeat(" ", width)
		b.WriteString(indent + marker + listItemContent(li, childIndent) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// listItemContent renders an <li>: inline content first, then any
// block-level children (nested lists, code blocks, quotes) indented to
// the item's content column.
func listItemContent(li *html.Node, childIndent string) string {
	var inline strings.Builder
	var blocks strings.Builder

	for ch := li.FirstChild; ch != nil; ch = ch.NextSibling {
		switch {
		case ch.Type == html.ElementNode && (ch.DataAtom == atom.Ul || ch.DataAtom == atom.Ol ||
			ch.DataAtom == atom.Pre || ch.DataAtom == atom.Blockquote):
			blocks.WriteString(renderBlock(ch, childIndent))
		case ch.Type == html.ElementNode && ch.DataAtom == atom.P:
			// Tight list rendering: paragraph children flow into the item line.
			if inline.Len() > 0 {
				inline.WriteString(" ")
			}
			inline.WriteString(inlineChildren(ch))
		default:
			inline.WriteString(inlineNode(ch))
		}
	}

	out := strings.TrimSpace(inline.String())
	if sub := strings.TrimRight(blocks.String(), "\n"); sub != "" {
		out += "\n" + sub
	}
	return out
}

// blockquote prefixes every rendered line of the quoted content with "> ".
func blockquote(n *html.Node, indent string) string {
	inner := strings.TrimRight(blockChildren(n, ""), "\n")
	if inner == "" {
		return ""
	}

	lines := strings.Split(inner, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = indent + ">"
		} else {
			lines[i] = indent + "> " + line
		}
	}
	return strings.Join(lines, "\n") + "\n\n"
}

// codeBlock renders a <pre> (optionally wrapping a <code>) as a fenced
// block, recovering the language from a "language-*" class when present.
func codeBlock(pre *html.Node, indent string) string {
	lang := ""
	src := pre
	if codeEl := findElement(pre, atom.Code); codeEl != nil {
		src = codeEl
		for _, cls := range strings.Fields(attr(codeEl, "class")) {
			if strings.HasPrefix(cls, "language-") {
				lang = strings.TrimPrefix(cls, "language-")
				break
			}
		}
	}

	text := strings.TrimRight(textContent(src), "\n")
	var b strings.Builder
	b.WriteString(indent + "```" + lang + "\n")
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(indent + line + "\n")
	}
	b.WriteString(indent + "```\n\n")
	return b.String()
}

// textContent concatenates the raw text nodes under n without collapsing
// whitespace. Used for code, where whitespace is significant.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for ch := node.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return b.String()
}

// findElement returns the first descendant of n with the given atom,
// or nil.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if found := findElement(ch, a); found != nil {
			return found
		}
	}
	return nil
}

// findCheckbox locates the checkbox input belonging to a list item,
// which marks it as a task-list item. Nested lists are not descended
// into: a checkbox there belongs to a child item, not this one.
func findCheckbox(n *html.Node) *html.Node {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && (ch.DataAtom == atom.Ul || ch.DataAtom == atom.Ol) {
			continue
		}
		if ch.Type == html.ElementNode && ch.DataAtom == atom.Input &&
			strings.EqualFold(attr(ch, "type"), "checkbox") {
			return ch
		}
		if found := findCheckbox(ch); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func collapseSpace(s string) string {
	return spaceRuns.ReplaceAllString(s, " ")
}
