package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"foliocms/internal/ai"
	"foliocms/internal/github"
	"foliocms/internal/store"
)

// newTestAdmin builds an Admin over temp-dir stores, with no GitHub
// token and no AI providers unless the test registers one.
func newTestAdmin(t *testing.T) *Admin {
	t.Helper()
	contentDir := t.TempDir()
	publicDir := t.TempDir()
	return NewAdmin(
		store.NewPostStore(contentDir),
		store.NewProjectStore(contentDir),
		store.NewImageStore(publicDir),
		github.NewClient(github.Config{}),
		ai.NewRegistry("openai", nil),
		false,
	)
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestPostCRUDFlow(t *testing.T) {
	a := newTestAdmin(t)

	// Create.
	rec := httptest.NewRecorder()
	a.CreatePost(rec, httptest.NewRequest(http.MethodPost, "/api/admin/posts", jsonBody(t, map[string]any{
		"title":       "My First Post",
		"description": "An introduction.",
		"content":     "Hello **world**.",
	})))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if resp["slug"] != "my-first-post" {
		t.Fatalf("slug = %v, want my-first-post", resp["slug"])
	}

	// Read one.
	rec = httptest.NewRecorder()
	a.Posts(rec, httptest.NewRequest(http.MethodGet, "/api/admin/posts?slug=my-first-post", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("read status = %d", rec.Code)
	}
	data := decodeResponse(t, rec)["data"].(map[string]any)
	if data["title"] != "My First Post" {
		t.Errorf("title = %v", data["title"])
	}

	// Update only the description.
	rec = httptest.NewRecorder()
	a.UpdatePost(rec, httptest.NewRequest(http.MethodPut, "/api/admin/posts", jsonBody(t, map[string]any{
		"slug":        "my-first-post",
		"description": "Updated.",
	})))
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.Posts(rec, httptest.NewRequest(http.MethodGet, "/api/admin/posts?slug=my-first-post", nil))
	data = decodeResponse(t, rec)["data"].(map[string]any)
	if data["description"] != "Updated." {
		t.Errorf("description = %v, want Updated.", data["description"])
	}
	if data["title"] != "My First Post" {
		t.Errorf("title changed by partial update: %v", data["title"])
	}

	// List.
	rec = httptest.NewRecorder()
	a.Posts(rec, httptest.NewRequest(http.MethodGet, "/api/admin/posts", nil))
	list := decodeResponse(t, rec)["data"].([]any)
	if len(list) != 1 {
		t.Errorf("list has %d entries, want 1", len(list))
	}

	// Delete, then read 404.
	rec = httptest.NewRecorder()
	a.DeletePost(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/posts?slug=my-first-post", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Posts(rec, httptest.NewRequest(http.MethodGet, "/api/admin/posts?slug=my-first-post", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("read after delete status = %d, want 404", rec.Code)
	}
}

func TestCreatePost_Validation(t *testing.T) {
	a := newTestAdmin(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"description": "d"}},
		{"missing description", map[string]any{"title": "t"}},
		{"blank title", map[string]any{"title": "   ", "description": "d"}},
		{"title too long", map[string]any{"title": strings.Repeat("x", maxTitleLen+1), "description": "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.CreatePost(rec, httptest.NewRequest(http.MethodPost, "/api/admin/posts", jsonBody(t, tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreatePost_Duplicate(t *testing.T) {
	a := newTestAdmin(t)
	body := map[string]any{"title": "Same Title", "description": "d"}

	rec := httptest.NewRecorder()
	a.CreatePost(rec, httptest.NewRequest(http.MethodPost, "/", jsonBody(t, body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.CreatePost(rec, httptest.NewRequest(http.MethodPost, "/", jsonBody(t, body)))
	if rec.Code != http.StatusConflict {
		t.Errorf("second create status = %d, want 409", rec.Code)
	}
}

func TestProductionGuard(t *testing.T) {
	a := newTestAdmin(t)
	a.isProd = true

	calls := []struct {
		name    string
		handler http.HandlerFunc
		req     *http.Request
	}{
		{"list posts", a.Posts, httptest.NewRequest(http.MethodGet, "/api/admin/posts", nil)},
		{"create post", a.CreatePost, httptest.NewRequest(http.MethodPost, "/api/admin/posts", strings.NewReader("{}"))},
		{"delete project", a.DeleteProject, httptest.NewRequest(http.MethodDelete, "/api/admin/projects?slug=x", nil)},
		{"upload", a.Upload, httptest.NewRequest(http.MethodPost, "/api/admin/upload", nil)},
		{"comments", a.Comments, httptest.NewRequest(http.MethodGet, "/api/admin/comments", nil)},
		{"slug", a.Slug, httptest.NewRequest(http.MethodPost, "/api/admin/slug", strings.NewReader("{}"))},
	}
	for _, c := range calls {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c.handler(rec, c.req)
			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}
		})
	}
}

func TestProjectCreate_WithStack(t *testing.T) {
	a := newTestAdmin(t)

	rec := httptest.NewRecorder()
	a.CreateProject(rec, httptest.NewRequest(http.MethodPost, "/", jsonBody(t, map[string]any{
		"title":       "Portfolio Site",
		"description": "This site.",
		"order":       2,
		"stack":       []string{"astro", "go"},
		"github":      "https://github.com/octocat/site",
	})))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.Projects(rec, httptest.NewRequest(http.MethodGet, "/?slug=portfolio-site", nil))
	data := decodeResponse(t, rec)["data"].(map[string]any)
	stack := data["stack"].([]any)
	if len(stack) != 2 || stack[0] != "astro" {
		t.Errorf("stack = %v", stack)
	}
	if data["order"] != float64(2) {
		t.Errorf("order = %v, want 2", data["order"])
	}
}

func TestUpdate_RequiresSlug(t *testing.T) {
	a := newTestAdmin(t)

	rec := httptest.NewRecorder()
	a.UpdatePost(rec, httptest.NewRequest(http.MethodPut, "/", jsonBody(t, map[string]any{
		"description": "no slug supplied",
	})))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDelete_RequiresSlugParam(t *testing.T) {
	a := newTestAdmin(t)

	rec := httptest.NewRecorder()
	a.DeletePost(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/posts", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func multipartUpload(t *testing.T, kind, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("type", kind); err != nil {
		t.Fatal(err)
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	a := newTestAdmin(t)

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	a.Upload(rec, multipartUpload(t, "blog", "photo.png", img.Bytes()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	url, _ := decodeResponse(t, rec)["url"].(string)
	if !strings.HasPrefix(url, "/uploads/blog/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q", url)
	}
}

func TestUpload_RejectsBadKindAndPayload(t *testing.T) {
	a := newTestAdmin(t)

	rec := httptest.NewRecorder()
	a.Upload(rec, multipartUpload(t, "avatars", "photo.png", []byte("x")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad kind status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Upload(rec, multipartUpload(t, "blog", "evil.png", []byte("<script>alert(1)</script>")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("script payload status = %d, want 400", rec.Code)
	}
}

func TestUpload_StoreWriteFailureIs500(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	publicDir := t.TempDir()
	if err := os.Chmod(publicDir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(publicDir, 0o755) })

	a := newTestAdmin(t)
	a.images = store.NewImageStore(publicDir)

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	a.Upload(rec, multipartUpload(t, "blog", "photo.png", img.Bytes()))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500, body %s", rec.Code, rec.Body.String())
	}
}

func TestComments_MissingToken(t *testing.T) {
	a := newTestAdmin(t)

	rec := httptest.NewRecorder()
	a.Comments(rec, httptest.NewRequest(http.MethodGet, "/api/admin/comments", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp["hint"] == nil {
		t.Error("expected a hint in the error payload")
	}
}

func TestComments_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"repository":{"discussions":{
			"totalCount": 1,
			"pageInfo": {"endCursor": "", "hasNextPage": false},
			"nodes": [{"number": 1, "title": "Hi", "url": "u",
				"createdAt": "2026-08-01T00:00:00Z",
				"author": {"login": "alice"},
				"comments": {"totalCount": 0}, "reactionGroups": []}]}}}}`))
	}))
	defer srv.Close()

	a := newTestAdmin(t)
	a.comments = github.NewClient(github.Config{Token: "t", Owner: "o", Repo: "r", BaseURL: srv.URL})

	rec := httptest.NewRecorder()
	a.Comments(rec, httptest.NewRequest(http.MethodGet, "/api/admin/comments?first=10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestComments_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := newTestAdmin(t)
	a.comments = github.NewClient(github.Config{Token: "t", BaseURL: srv.URL})

	rec := httptest.NewRecorder()
	a.Comments(rec, httptest.NewRequest(http.MethodGet, "/api/admin/comments", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestSlug_LocalDerivation(t *testing.T) {
	a := newTestAdmin(t)

	rec := httptest.NewRecorder()
	a.Slug(rec, httptest.NewRequest(http.MethodPost, "/api/admin/slug", jsonBody(t, map[string]any{
		"title": "Hello, World!",
	})))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp["slug"] != "hello-world" {
		t.Errorf("slug = %v", resp["slug"])
	}
	if resp["translated"] != false {
		t.Errorf("translated = %v, want false", resp["translated"])
	}
}

func TestSlug_TranslationPath(t *testing.T) {
	a := newTestAdmin(t)

	// Cyrillic title kebab-cases to nothing, so without a provider the
	// endpoint reports a missing credential.
	rec := httptest.NewRecorder()
	a.Slug(rec, httptest.NewRequest(http.MethodPost, "/api/admin/slug", jsonBody(t, map[string]any{
		"title": "Привет мир",
	})))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("no provider status = %d, want 503", rec.Code)
	}

	// With a provider registered, the translated title is slugified.
	a.aiRegistry.Register("openai", translateStub{"Hello World"})
	rec = httptest.NewRecorder()
	a.Slug(rec, httptest.NewRequest(http.MethodPost, "/api/admin/slug", jsonBody(t, map[string]any{
		"title": "Привет мир",
	})))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if resp["slug"] != "hello-world" {
		t.Errorf("slug = %v, want hello-world", resp["slug"])
	}
	if resp["translated"] != true {
		t.Errorf("translated = %v, want true", resp["translated"])
	}
}

type translateStub struct{ out string }

func (s translateStub) Generate(_ context.Context, _, _ string) (string, error) {
	return s.out, nil
}

func (s translateStub) Name() string { return "stub" }
