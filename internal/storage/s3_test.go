package storage

import "testing"

func TestNew_DisabledWithoutCredentials(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		access   string
		secret   string
	}{
		{"all empty", "", "", ""},
		{"no endpoint", "", "ak", "sk"},
		{"no access key", "https://s3.example.com", "", "sk"},
		{"no secret", "https://s3.example.com", "ak", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.endpoint, "eu-central-1", tt.access, tt.secret, "bucket", "content")
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if c != nil {
				t.Error("expected nil client when unconfigured")
			}
		})
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New("https://s3.example.com", "eu-central-1", "ak", "sk", "", "content")
	if err == nil {
		t.Fatal("expected error without bucket")
	}
}

func TestKeyPrefix(t *testing.T) {
	c := &Client{prefix: "content"}
	if got := c.key("blog/post.md"); got != "content/blog/post.md" {
		t.Errorf("key() = %q", got)
	}

	c = &Client{}
	if got := c.key("blog/post.md"); got != "blog/post.md" {
		t.Errorf("key() without prefix = %q", got)
	}
}
