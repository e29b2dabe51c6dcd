// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package github is a read-only client for GitHub Discussions, used as
// the comments backend. It talks to the GraphQL v4 API and never writes.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	stripmd "github.com/writeas/go-strip-markdown"
)

// ErrMissingToken is returned when the client has no access token.
// Callers map it to a missing-credential failure.
var ErrMissingToken = errors.New("github: access token not configured")

// ErrUpstream wraps transport and GraphQL-level failures from the API.
var ErrUpstream = errors.New("github: upstream error")

// previewLen caps the plain-text preview extracted from comment bodies.
const previewLen = 200

// Client reads discussions from a single repository's discussion category.
type Client struct {
	token      string
	owner      string
	repo       string
	categoryID string
	baseURL    string
	httpClient *http.Client
}

// Config holds the settings for a discussions client.
type Config struct {
	Token      string
	Owner      string
	Repo       string
	CategoryID string
	// BaseURL overrides https://api.github.com, for tests.
	BaseURL string
}

// NewClient creates a discussions client. A client without a token is
// still constructed; every call on it returns ErrMissingToken.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	return &Client{
		token:      cfg.Token,
		owner:      cfg.Owner,
		repo:       cfg.Repo,
		categoryID: cfg.CategoryID,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// HasToken reports whether the client can make authenticated calls.
func (c *Client) HasToken() bool { return c.token != "" }

// Reaction is an emoji reaction aggregate on a discussion or comment.
type Reaction struct {
	Content string `json:"content"`
	Count   int    `json:"count"`
}

// Comment is a single discussion comment, possibly with nested replies.
type Comment struct {
	ID        string     `json:"id"`
	Author    string     `json:"author"`
	AvatarURL string     `json:"avatarUrl,omitempty"`
	Body      string     `json:"body"`
	Preview   string     `json:"preview"`
	CreatedAt time.Time  `json:"createdAt"`
	Reactions []Reaction `json:"reactions,omitempty"`
	Replies   []Comment  `json:"replies,omitempty"`
}

// Discussion is one discussion thread.
type Discussion struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	Author       string     `json:"author"`
	CreatedAt    time.Time  `json:"createdAt"`
	CommentCount int        `json:"commentCount"`
	Reactions    []Reaction `json:"reactions,omitempty"`
	Comments     []Comment  `json:"comments,omitempty"`
}

// PageInfo carries cursor pagination state for list calls.
type PageInfo struct {
	EndCursor   string `json:"endCursor"`
	HasNextPage bool   `json:"hasNextPage"`
}

// DiscussionPage is one page of discussions.
type DiscussionPage struct {
	Discussions []Discussion `json:"discussions"`
	PageInfo    PageInfo     `json:"pageInfo"`
	TotalCount  int          `json:"totalCount"`
}

// Stats aggregates activity across all discussions in the category.
type Stats struct {
	TotalDiscussions int            `json:"totalDiscussions"`
	TotalComments    int            `json:"totalComments"`
	Reactions        map[string]int `json:"reactions"`
}

const listQuery = `
query($owner: String!, $repo: String!, $categoryId: ID!, $first: Int!, $after: String) {
  repository(owner: $owner, name: $repo) {
    discussions(first: $first, after: $after, categoryId: $categoryId, orderBy: {field: CREATED_AT, direction: DESC}) {
      totalCount
      pageInfo { endCursor hasNextPage }
      nodes {
        number
        title
        url
        createdAt
        author { login }
        comments { totalCount }
        reactionGroups { content reactors { totalCount } }
      }
    }
  }
}`

const detailQuery = `
query($owner: String!, $repo: String!, $number: Int!) {
  repository(owner: $owner, name: $repo) {
    discussion(number: $number) {
      number
      title
      url
      createdAt
      author { login }
      reactionGroups { content reactors { totalCount } }
      comments(first: 100) {
        totalCount
        nodes {
          id
          body
          createdAt
          author { login avatarUrl }
          reactionGroups { content reactors { totalCount } }
          replies(first: 100) {
            nodes {
              id
              body
              createdAt
              author { login avatarUrl }
              reactionGroups { content reactors { totalCount } }
            }
          }
        }
      }
    }
  }
}`

const statsQuery = `
query($owner: String!, $repo: String!, $categoryId: ID!) {
  repository(owner: $owner, name: $repo) {
    discussions(first: 100, categoryId: $categoryId) {
      totalCount
      nodes {
        comments { totalCount }
        reactionGroups { content reactors { totalCount } }
      }
    }
  }
}`

// ListDiscussions returns one page of discussions in the configured
// category, newest first. after may be empty for the first page.
func (c *Client) ListDiscussions(ctx context.Context, first int, after string) (*DiscussionPage, error) {
	if first <= 0 || first > 100 {
		first = 20
	}
	vars := map[string]any{
		"owner":      c.owner,
		"repo":       c.repo,
		"categoryId": c.categoryID,
		"first":      first,
	}
	if after != "" {
		vars["after"] = after
	}

	var resp struct {
		Repository struct {
			Discussions struct {
				TotalCount int          `json:"totalCount"`
				PageInfo   PageInfo     `json:"pageInfo"`
				Nodes      []gqlSummary `json:"nodes"`
			} `json:"discussions"`
		} `json:"repository"`
	}
	if err := c.query(ctx, listQuery, vars, &resp); err != nil {
		return nil, err
	}

	page := &DiscussionPage{
		Discussions: make([]Discussion, 0, len(resp.Repository.Discussions.Nodes)),
		PageInfo:    resp.Repository.Discussions.PageInfo,
		TotalCount:  resp.Repository.Discussions.TotalCount,
	}
	for _, n := range resp.Repository.Discussions.Nodes {
		page.Discussions = append(page.Discussions, n.toDiscussion())
	}
	return page, nil
}

// Discussion returns a single discussion with its comments and replies.
func (c *Client) Discussion(ctx context.Context, number int) (*Discussion, error) {
	vars := map[string]any{
		"owner":  c.owner,
		"repo":   c.repo,
		"number": number,
	}

	var resp struct {
		Repository struct {
			Discussion *gqlDetail `json:"discussion"`
		} `json:"repository"`
	}
	if err := c.query(ctx, detailQuery, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Repository.Discussion == nil {
		return nil, fmt.Errorf("%w: discussion %d not found", ErrUpstream, number)
	}

	d := resp.Repository.Discussion.toDiscussion()
	return &d, nil
}

// Stats returns aggregate counts across the category.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	vars := map[string]any{
		"owner":      c.owner,
		"repo":       c.repo,
		"categoryId": c.categoryID,
	}

	var resp struct {
		Repository struct {
			Discussions struct {
				TotalCount int `json:"totalCount"`
				Nodes      []struct {
					Comments struct {
						TotalCount int `json:"totalCount"`
					} `json:"comments"`
					ReactionGroups []gqlReactionGroup `json:"reactionGroups"`
				} `json:"nodes"`
			} `json:"discussions"`
		} `json:"repository"`
	}
	if err := c.query(ctx, statsQuery, vars, &resp); err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalDiscussions: resp.Repository.Discussions.TotalCount,
		Reactions:        make(map[string]int),
	}
	for _, n := range resp.Repository.Discussions.Nodes {
		stats.TotalComments += n.Comments.TotalCount
		for _, rg := range n.ReactionGroups {
			if rg.Reactors.TotalCount > 0 {
				stats.Reactions[rg.Content] += rg.Reactors.TotalCount
			}
		}
	}
	return stats, nil
}

// query posts a GraphQL request and decodes the data payload into out.
func (c *Client) query(ctx context.Context, q string, vars map[string]any, out any) error {
	if c.token == "" {
		return ErrMissingToken
	}

	payload, err := json.Marshal(map[string]any{
		"query":     q,
		"variables": vars,
	})
	if err != nil {
		return fmt.Errorf("github marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("github request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: %s", ErrUpstream, envelope.Errors[0].Message)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrUpstream, err)
	}
	return nil
}

// preview strips Markdown syntax and truncates to previewLen runes.
func preview(body string) string {
	text := strings.TrimSpace(stripmd.Strip(body))
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return strings.TrimSpace(string(runes[:previewLen])) + "…"
}

// --- GraphQL wire types ---

type gqlAuthor struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
}

type gqlReactionGroup struct {
	Content  string `json:"content"`
	Reactors struct {
		TotalCount int `json:"totalCount"`
	} `json:"reactors"`
}

func reactions(groups []gqlReactionGroup) []Reaction {
	var out []Reaction
	for _, g := range groups {
		if g.Reactors.TotalCount > 0 {
			out = append(out, Reaction{Content: g.Content, Count: g.Reactors.TotalCount})
		}
	}
	return out
}

type gqlSummary struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	Author    gqlAuthor `json:"author"`
	Comments  struct {
		TotalCount int `json:"totalCount"`
	} `json:"comments"`
	ReactionGroups []gqlReactionGroup `json:"reactionGroups"`
}

func (s gqlSummary) toDiscussion() Discussion {
	return Discussion{
		Number:       s.Number,
		Title:        s.Title,
		URL:          s.URL,
		Author:       s.Author.Login,
		CreatedAt:    s.CreatedAt,
		CommentCount: s.Comments.TotalCount,
		Reactions:    reactions(s.ReactionGroups),
	}
}

type gqlComment struct {
	ID             string             `json:"id"`
	Body           string             `json:"body"`
	CreatedAt      time.Time          `json:"createdAt"`
	Author         gqlAuthor          `json:"author"`
	ReactionGroups []gqlReactionGroup `json:"reactionGroups"`
	Replies        struct {
		Nodes []gqlComment `json:"nodes"`
	} `json:"replies"`
}

func (c gqlComment) toComment() Comment {
	out := Comment{
		ID:        c.ID,
		Author:    c.Author.Login,
		AvatarURL: c.Author.AvatarURL,
		Body:      c.Body,
		Preview:   preview(c.Body),
		CreatedAt: c.CreatedAt,
		Reactions: reactions(c.ReactionGroups),
	}
	for _, r := range c.Replies.Nodes {
		out.Replies = append(out.Replies, r.toComment())
	}
	return out
}

type gqlDetail struct {
	gqlSummary
	Comments struct {
		TotalCount int          `json:"totalCount"`
		Nodes      []gqlComment `json:"nodes"`
	} `json:"comments"`
}

func (d gqlDetail) toDiscussion() Discussion {
	out := d.gqlSummary.toDiscussion()
	out.CommentCount = d.Comments.TotalCount
	for _, c := range d.Comments.Nodes {
		out.Comments = append(out.Comments, c.toComment())
	}
	return out
}
