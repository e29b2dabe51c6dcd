package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_HOST", "APP_PORT", "APP_ENV", "CONTENT_DIR", "PUBLIC_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.ContentDir != "content" {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
	if cfg.PublicDir != "public" {
		t.Errorf("PublicDir = %q", cfg.PublicDir)
	}
	if !cfg.IsDev() {
		t.Error("default environment should be development")
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestLoad_ProductionEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false for ENV=production")
	}
	if cfg.IsDev() {
		t.Error("IsDev() = true for ENV=production")
	}
}

func TestLoad_RejectsBadPaths(t *testing.T) {
	t.Setenv("CONTENT_DIR", "../outside")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for path-escaping CONTENT_DIR")
	}
}
