// Package server assembles the HTTP surface: route registration, CORS, and
// OpenTelemetry instrumentation around the auth handlers.
package server

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/leapwind/serverless-auth/internal/auth/handler"
)

// Route → handler mapping:
//   - /api/v1 and /api/v1/ → Index
//   - /api/v1/auth         → Auth
//   - /api/v1/confirm      → Confirm
//   - /api/v1/verify       → Verify
//   - /api/v1/signout      → Signout
//   - /api/v1/status       → Status
func registerRoutes(mux *http.ServeMux, h *handler.Handler) {
	mux.HandleFunc("/api/v1", h.Index)
	mux.HandleFunc("/api/v1/", h.Index)
	mux.HandleFunc("/api/v1/auth", h.Auth)
	mux.HandleFunc("/api/v1/confirm", h.Confirm)
	mux.HandleFunc("/api/v1/verify", h.Verify)
	mux.HandleFunc("/api/v1/signout", h.Signout)
	mux.HandleFunc("/api/v1/status", h.Status)
}

// allowCors wraps next with permissive CORS for browser clients on other
// origins. Preflight requests are answered directly with 200.
func allowCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS,PATCH,DELETE,POST,PUT")
		w.Header().Set("Access-Control-Allow-Headers",
			"X-CSRF-Token, X-Requested-With, Accept, Accept-Version, Content-Length, Content-MD5, Content-Type, Date, X-Api-Version, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewRouter builds the full HTTP handler chain: routes, CORS, then otelhttp
// so every request carries a server span.
func NewRouter(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()
	registerRoutes(mux, h)
	return otelhttp.NewHandler(allowCors(mux), "serverless-auth")
}
