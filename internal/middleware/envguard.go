// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// EnvGuard blocks the admin surface in production deployments. JSON API
// paths get an explicit 403 so clients can show a message; admin UI paths
// get a plain 404 so the surface's existence is not revealed. Handlers
// repeat the check per-request as a second layer.
func EnvGuard(isProduction bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProduction {
				switch {
				case strings.HasPrefix(r.URL.Path, "/api/admin"):
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusForbidden)
					w.Write([]byte(`{"success":false,"error":"admin API is disabled in production"}`))
					return
				case strings.HasPrefix(r.URL.Path, "/admin"):
					http.NotFound(w, r)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
