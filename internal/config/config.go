// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Content tree
	ContentDir string // root of the markdown collections (blog/, projects/)
	PublicDir  string // root of the public assets tree (uploads land under it)

	// GitHub Discussions (comments proxy)
	GitHubToken      string
	GitHubRepoOwner  string
	GitHubRepoName   string
	GitHubCategoryID string

	// AI provider settings (slug translation)
	AIProvider string // "openai", "gemini", "claude"

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string

	ClaudeKey     string
	ClaudeModel   string
	ClaudeBaseURL string

	// S3-compatible content backup (optional)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Prefix    string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or inconsistent.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		ContentDir: envOrDefault("CONTENT_DIR", "content"),
		PublicDir:  envOrDefault("PUBLIC_DIR", "public"),

		GitHubToken:      os.Getenv("GITHUB_TOKEN"),
		GitHubRepoOwner:  os.Getenv("GITHUB_REPO_OWNER"),
		GitHubRepoName:   os.Getenv("GITHUB_REPO_NAME"),
		GitHubCategoryID: os.Getenv("GITHUB_CATEGORY_ID"),

		AIProvider: os.Getenv("AI_PROVIDER"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),

		ClaudeKey:     os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:   envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
		ClaudeBaseURL: os.Getenv("CLAUDE_BASE_URL"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Prefix:    envOrDefault("S3_PREFIX", "content"),
	}

	if !filepath.IsLocal(cfg.ContentDir) && !filepath.IsAbs(cfg.ContentDir) {
		return nil, fmt.Errorf("CONTENT_DIR %q is not a usable path", cfg.ContentDir)
	}
	if !filepath.IsLocal(cfg.PublicDir) && !filepath.IsAbs(cfg.PublicDir) {
		return nil, fmt.Errorf("PUBLIC_DIR %q is not a usable path", cfg.PublicDir)
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true if the application is running a production build.
// The admin surface is disabled entirely in this mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
