// Package server exposes the application over a local JSON API so a
// browser front end can drive the same operations as the CLI.
package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/app"
)

// DefaultAddr is the loopback address the API listens on.
const DefaultAddr = "127.0.0.1:7270"

// defaultMaxBody bounds request bodies. Uploads arrive base64 encoded.
const defaultMaxBody = 16 << 20

// Server is the local HTTP API.
type Server struct {
	app     *app.App
	log     *zap.Logger
	maxBody int64
	http    *http.Server
}

// Option configures the server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) { s.http.Addr = addr }
}

// WithMaxBody overrides the request body limit.
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// New creates a Server backed by a.
func New(a *app.App, opts ...Option) *Server {
	s := &Server{
		app:     a,
		log:     a.Log.Named("server"),
		maxBody: defaultMaxBody,
		http: &http.Server{
			Addr:         DefaultAddr,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 5 * time.Minute, // update downloads stream over one request
			IdleTimeout:  60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	// config and skins
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("PUT /api/config/install-folder", s.handleSetInstallFolder)
	mux.HandleFunc("PUT /api/config/active-skin", s.handleSetActiveSkin)
	mux.HandleFunc("PUT /api/config/lazer", s.handleSetLazerMode)
	mux.HandleFunc("PUT /api/config/lazer-path", s.handleSetLazerPath)
	mux.HandleFunc("PUT /api/config/use-2x", s.handleSetUse2x)
	mux.HandleFunc("GET /api/skins", s.handleListSkins)
	mux.HandleFunc("GET /api/skin/ini", s.handleGetSkinIni)
	mux.HandleFunc("PUT /api/skin/ini", s.handlePutSkinIni)

	// image presets
	mux.HandleFunc("GET /api/presets/{category}", s.handleListPresets)
	mux.HandleFunc("POST /api/presets/{category}", s.handleAddPreset)
	mux.HandleFunc("POST /api/presets/{category}/from-skin", s.handleSavePresetFromSkin)
	mux.HandleFunc("GET /api/images/{id}/preview", s.handleImagePreview)
	mux.HandleFunc("DELETE /api/images/{id}", s.handleDeleteImage)
	mux.HandleFunc("POST /api/images/{id}/apply", s.handleApplyImage)
	mux.HandleFunc("POST /api/circle-pair/apply", s.handleApplyCirclePair)

	// digits
	mux.HandleFunc("GET /api/digits", s.handleListDigits)
	mux.HandleFunc("POST /api/digits", s.handleCreateDigits)
	mux.HandleFunc("GET /api/digits/{name}", s.handleGetDigits)
	mux.HandleFunc("PUT /api/digits/{name}", s.handleRenameDigits)
	mux.HandleFunc("DELETE /api/digits/{name}", s.handleDeleteDigits)
	mux.HandleFunc("PUT /api/digits/{name}/slots/{slot}", s.handleSetDigit)
	mux.HandleFunc("DELETE /api/digits/{name}/slots/{slot}", s.handleRemoveDigit)
	mux.HandleFunc("GET /api/digits/{name}/previews", s.handleDigitPreviews)
	mux.HandleFunc("POST /api/digits/{name}/apply", s.handleApplyDigits)

	// hitsounds
	mux.HandleFunc("GET /api/hitsounds", s.handleListHitsounds)
	mux.HandleFunc("POST /api/hitsounds", s.handleCreateHitsounds)
	mux.HandleFunc("GET /api/hitsounds/{name}", s.handleGetHitsounds)
	mux.HandleFunc("PUT /api/hitsounds/{name}", s.handleRenameHitsounds)
	mux.HandleFunc("DELETE /api/hitsounds/{name}", s.handleDeleteHitsounds)
	mux.HandleFunc("PUT /api/hitsounds/{name}/slots/{slot}", s.handleSetSound)
	mux.HandleFunc("DELETE /api/hitsounds/{name}/slots/{slot}", s.handleRemoveSound)
	mux.HandleFunc("POST /api/hitsounds/{name}/apply", s.handleApplyHitsounds)

	// current-skin caches
	mux.HandleFunc("GET /api/current/{kind}", s.handleReadCurrent)
	mux.HandleFunc("POST /api/current/{kind}/refresh", s.handleRefreshCurrent)
	mux.HandleFunc("POST /api/current/{kind}/save", s.handleSaveCurrent)

	// seed, updates, history
	mux.HandleFunc("GET /api/seed", s.handleSeedStatus)
	mux.HandleFunc("POST /api/seed", s.handleRunSeed)
	mux.HandleFunc("GET /api/update", s.handleCheckUpdate)
	mux.HandleFunc("POST /api/update/ignore", s.handleIgnoreUpdates)
	mux.HandleFunc("POST /api/update/enable", s.handleEnableUpdates)
	mux.HandleFunc("GET /api/update/download", s.handleDownloadUpdate)
	mux.HandleFunc("POST /api/update/install", s.handleInstallUpdate)
	mux.HandleFunc("GET /api/history", s.handleListHistory)
	mux.HandleFunc("DELETE /api/history", s.handleClearHistory)

	var handler http.Handler = mux
	handler = maxBodyMiddleware(handler, s.maxBody)
	handler = corsMiddleware(handler)
	handler = s.logMiddleware(handler)
	s.http.Handler = handler

	return s
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.Info("listening", zap.String("addr", s.http.Addr))
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

func maxBodyMiddleware(next http.Handler, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// WebSocket upgrades are not limited
		if r.Body != nil && strings.HasPrefix(r.URL.Path, "/api/") && r.Method != http.MethodGet &&
			!strings.Contains(r.Header.Get("Upgrade"), "websocket") {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack is required by websocket.Accept.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start).Round(time.Millisecond)),
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			host := r.Host
			if strings.HasPrefix(origin, "http://"+host) || strings.HasPrefix(origin, "https://"+host) ||
				strings.Contains(origin, "://localhost:") || strings.Contains(origin, "://127.0.0.1:") {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Upgrade, Connection")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowedOriginPatterns returns WebSocket origin patterns matching the server's host.
func allowedOriginPatterns(r *http.Request) []string {
	patterns := []string{"localhost:*", "127.0.0.1:*"}
	if host := r.Host; host != "" {
		h := host
		if idx := strings.LastIndex(h, ":"); idx > 0 {
			h = h[:idx]
		}
		patterns = append(patterns, h+":*", host)
	}
	return patterns
}
