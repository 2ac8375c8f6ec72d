// Package server provides HTTP server initialization and lifecycle
// management for the relreg API.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/obokit/relreg/internal/config"
	"github.com/obokit/relreg/internal/registry"
	"github.com/obokit/relreg/web/handlers"
)

// securityHeadersMiddleware adds security headers to all HTTP responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Start initializes and starts the HTTP server around the given registry.
// It returns the actual address being listened on (useful for testing with
// port 0) and the WebSocketHub carrying registration event broadcasts. The
// server shuts down gracefully when ctx is cancelled.
func Start(ctx context.Context, cfg *config.Config, reg *registry.Registry) (string, *handlers.WebSocketHub, error) {
	mux := http.NewServeMux()

	wsHub := handlers.NewWebSocketHub()
	go wsHub.Run()

	rateLimiter := handlers.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)

	apiHandlers := handlers.NewAPIHandlers(reg, cfg)
	apiHandlers.SetHub(wsHub)

	// API routes (require auth in production mode). Literal segments take
	// precedence over {name}, so topdown/bottomup are not shadowed.
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/api/relationships", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			apiHandlers.ListRelationships(w, r)
		case http.MethodPost:
			apiHandlers.RegisterRelationship(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	apiMux.HandleFunc("GET /api/relationships/topdown", apiHandlers.ListTopdown)
	apiMux.HandleFunc("GET /api/relationships/bottomup", apiHandlers.ListBottomup)
	apiMux.HandleFunc("GET /api/relationships/{name}", apiHandlers.GetRelationship)
	apiMux.HandleFunc("GET /api/relationships/{name}/complement", apiHandlers.GetComplement)
	apiMux.HandleFunc("POST /api/obo/stanza", apiHandlers.RegisterStanza)

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","relationships":%d}`, reg.Len())
	})
	mux.Handle("/api/", handlers.RequireAuth(apiMux, cfg))
	mux.Handle("/ws", wsHub)

	// Wrap the whole server with rate limiting, then security headers.
	handler := handlers.RateLimitMiddleware(mux, rateLimiter)
	handler = securityHeadersMiddleware(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		wsHub.Stop()
		return "", nil, fmt.Errorf("server: failed to listen on %s: %w", addr, err)
	}

	actualAddr := listener.Addr().String()

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		wsHub.Stop()
	}()

	return actualAddr, wsHub, nil
}
