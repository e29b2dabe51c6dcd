// Package router sets up the HTTP routes and middleware chain for the
// foliocms server: the JSON admin API, the uploads file server, and the
// health check.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"foliocms/internal/handlers"
	"foliocms/internal/middleware"
)

// Options control environment-dependent router behaviour.
type Options struct {
	// Production blocks the whole admin surface at the middleware
	// layer. Handlers carry their own check as a second layer.
	Production bool

	// UploadsDir is the on-disk directory served under /uploads.
	UploadsDir string
}

// New creates the configured chi router with all middleware and routes.
func New(admin *handlers.Admin, opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.EnvGuard(opts.Production))

	if !opts.Production {
		// The admin UI is served by the frontend dev server on another
		// port during development.
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", healthHandler)

	// JSON admin API. Slugs travel in query parameters or request
	// bodies, never in the path, so they are not constrained by URL
	// routing rules.
	r.Get("/api/admin/posts", admin.Posts)
	r.Post("/api/admin/posts", admin.CreatePost)
	r.Put("/api/admin/posts", admin.UpdatePost)
	r.Delete("/api/admin/posts", admin.DeletePost)

	r.Get("/api/admin/projects", admin.Projects)
	r.Post("/api/admin/projects", admin.CreateProject)
	r.Put("/api/admin/projects", admin.UpdateProject)
	r.Delete("/api/admin/projects", admin.DeleteProject)

	r.Post("/api/admin/upload", admin.Upload)
	r.Get("/api/admin/comments", admin.Comments)
	r.Post("/api/admin/slug", admin.Slug)

	// Uploaded assets.
	if opts.UploadsDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
