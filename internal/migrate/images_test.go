package migrate

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"foliocms/internal/models"
	"foliocms/internal/store"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestMigrator(t *testing.T) (*Migrator, *store.PostStore, *store.ProjectStore) {
	t.Helper()
	posts := store.NewPostStore(t.TempDir())
	projects := store.NewProjectStore(t.TempDir())
	images := store.NewImageStore(t.TempDir())
	return New(posts, projects, images), posts, projects
}

func TestRun_MigratesHeroAndBodyImages(t *testing.T) {
	img := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(img)
	}))
	defer srv.Close()

	m, posts, _ := newTestMigrator(t)

	body := fmt.Sprintf("Intro.\n\n![pic](%s/a.png)\n\nAgain: ![pic](%s/a.png)\n", srv.URL, srv.URL)
	meta := models.PostMeta{
		Title:       "With Images",
		Description: "d",
		HeroImage:   srv.URL + "/hero.png",
	}
	postSlug, err := posts.Create(meta, body, "")
	if err != nil {
		t.Fatal(err)
	}

	report, err := m.Run(context.Background(), models.CollectionPosts, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Scanned != 1 || report.Rewritten != 1 {
		t.Errorf("report = %+v", report)
	}
	// Hero plus one unique body URL.
	if report.Downloaded != 2 {
		t.Errorf("Downloaded = %d, want 2", report.Downloaded)
	}

	post, err := posts.ReadOne(postSlug)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(post.HeroImage, "/uploads/blog/") {
		t.Errorf("heroImage = %q, want local path", post.HeroImage)
	}
	if strings.Contains(post.Content, srv.URL) {
		t.Errorf("body still references remote host:\n%s", post.Content)
	}
	if got := strings.Count(post.Content, "/uploads/blog/"); got != 2 {
		t.Errorf("body has %d local references, want 2", got)
	}
}

func TestRun_DryRunTouchesNothing(t *testing.T) {
	m, posts, _ := newTestMigrator(t)

	remote := "https://img.example.com/pic.png"
	postSlug, err := posts.Create(models.PostMeta{
		Title:       "Dry",
		Description: "d",
	}, "![x]("+remote+")", "")
	if err != nil {
		t.Fatal(err)
	}

	report, err := m.Run(context.Background(), models.CollectionPosts, true)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Downloaded != 0 || report.Rewritten != 0 {
		t.Errorf("dry run report = %+v", report)
	}

	post, _ := posts.ReadOne(postSlug)
	if !strings.Contains(post.Content, remote) {
		t.Errorf("dry run modified content:\n%s", post.Content)
	}
}

func TestRun_RetriesThenSucceeds(t *testing.T) {
	img := pngBytes(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "transient", http.StatusBadGateway)
			return
		}
		w.Write(img)
	}))
	defer srv.Close()

	m, posts, _ := newTestMigrator(t)
	if _, err := posts.Create(models.PostMeta{Title: "Flaky", Description: "d"},
		"![x]("+srv.URL+"/f.png)", ""); err != nil {
		t.Fatal(err)
	}

	report, err := m.Run(context.Background(), models.CollectionPosts, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Downloaded != 1 {
		t.Errorf("Downloaded = %d, want 1 after retries", report.Downloaded)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hit %d times, want 3", got)
	}
}

func TestRun_RecordsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	m, posts, _ := newTestMigrator(t)
	if _, err := posts.Create(models.PostMeta{Title: "Broken", Description: "d"},
		"![x]("+srv.URL+"/gone.png)", ""); err != nil {
		t.Fatal(err)
	}

	report, err := m.Run(context.Background(), models.CollectionPosts, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Failures) != 1 {
		t.Errorf("Failures = %v, want one entry", report.Failures)
	}
	if report.Rewritten != 0 {
		t.Errorf("Rewritten = %d, want 0", report.Rewritten)
	}

	// The original reference survives a failed download.
	post, _ := posts.ReadOne("broken")
	if !strings.Contains(post.Content, srv.URL) {
		t.Errorf("failed download removed the reference:\n%s", post.Content)
	}
}

func TestRun_ProjectsCollection(t *testing.T) {
	img := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(img)
	}))
	defer srv.Close()

	m, _, projects := newTestMigrator(t)
	if _, err := projects.Create(models.ProjectMeta{
		Title:       "Proj",
		Description: "d",
		HeroImage:   srv.URL + "/hero.png",
	}, "", ""); err != nil {
		t.Fatal(err)
	}

	report, err := m.Run(context.Background(), models.CollectionProjects, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Downloaded != 1 || report.Rewritten != 1 {
		t.Errorf("report = %+v", report)
	}

	project, _ := projects.ReadOne("proj")
	if !strings.HasPrefix(project.HeroImage, "/uploads/project/") {
		t.Errorf("heroImage = %q", project.HeroImage)
	}
}

func TestRun_UnknownCollection(t *testing.T) {
	m, _, _ := newTestMigrator(t)
	if _, err := m.Run(context.Background(), models.Collection("pages"), false); err == nil {
		t.Fatal("expected error for unknown collection")
	}
}
