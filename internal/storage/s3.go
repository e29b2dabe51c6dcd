// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage mirrors the content tree to S3-compatible object
// storage as an off-site backup. It wraps the AWS SDK v2 and is
// configured for path-style access so self-hosted endpoints work.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// indexKey is the object under the sync prefix that records, per file,
// the modification time of the last pushed version.
const indexKey = ".sync-index.json"

// Client mirrors local directories into one bucket under a key prefix.
type Client struct {
	s3     *s3.Client
	bucket string
	prefix string
}

// New creates an S3 sync client with static credentials and path-style
// addressing. Returns (nil, nil) if endpoint or credentials are empty,
// allowing the app to run without a mirror.
func New(endpoint, region, accessKey, secretKey, bucket, prefix string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3 sync: bucket is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:     s3Client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// SyncResult reports what one SyncDir run did.
type SyncResult struct {
	Scanned int
	Pushed  int
	Skipped int
}

// SyncDir walks dir and pushes every file whose modification time is
// newer than the recorded index entry, then stores the updated index.
// Deletions are not propagated; the mirror is additive.
func (c *Client) SyncDir(ctx context.Context, dir string) (*SyncResult, error) {
	index, err := c.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		result.Scanned++

		info, err := d.Info()
		if err != nil {
			return err
		}
		modTime := info.ModTime().UTC().Truncate(time.Second)

		if last, ok := index[rel]; ok && !modTime.After(last) {
			result.Skipped++
			return nil
		}

		if err := c.pushFile(ctx, path, rel); err != nil {
			return err
		}
		index[rel] = modTime
		result.Pushed++
		slog.Info("synced file", "path", rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sync %s: %w", dir, err)
	}

	if result.Pushed > 0 {
		if err := c.saveIndex(ctx, index); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (c *Client) key(rel string) string {
	if c.prefix == "" {
		return rel
	}
	return c.prefix + "/" + rel
}

func (c *Client) pushFile(ctx context.Context, path, rel string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(rel))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(c.key(rel)),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", rel, err)
	}
	return nil
}

// loadIndex fetches the sync index; a missing index means a first run
// and yields an empty map.
func (c *Client) loadIndex(ctx context.Context) (map[string]time.Time, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key(indexKey)),
	})
	if err != nil {
		// Treat any fetch failure as an absent index; the worst case
		// is re-pushing files that are already current.
		return map[string]time.Time{}, nil
	}
	defer out.Body.Close()

	index := map[string]time.Time{}
	if err := json.NewDecoder(out.Body).Decode(&index); err != nil {
		slog.Warn("sync index unreadable, resyncing everything", "error", err)
		return map[string]time.Time{}, nil
	}
	return index, nil
}

func (c *Client) saveIndex(ctx context.Context, index map[string]time.Time) error {
	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("marshal sync index: %w", err)
	}

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(c.key(indexKey)),
		Body:        strings.NewReader(string(data)),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put sync index: %w", err)
	}
	return nil
}
