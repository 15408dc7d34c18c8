// Package http provides the HTTP surface: a small server-rendered shell page
// plus the JSON API the client calls for entries, aggregates, settings and
// manual sync.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"zenfin/internal/cache"
	"zenfin/internal/core"
	"zenfin/internal/ledger"
	appweb "zenfin/web"
)

type Server struct {
	http.Server
	templates   *template.Template
	entries     *ledger.Service
	settings    ledger.SettingsStore
	sync        *ledger.Coordinator
	insights    InsightProvider
	rateLimiter *rateLimiter

	// Aggregates are recomputed from the full collection; cache them per
	// period and purge on any mutation, since an edit can move amounts
	// between months.
	overviewCache *cache.LRU[monthOverview]
	trendCache    *cache.LRU[[]core.TrendPoint]

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. The sync coordinator and insight provider may be nil when no
// remote target or generator is configured.
func NewServer(addr string, entries *ledger.Service, settings ledger.SettingsStore, coordinator *ledger.Coordinator, advisor InsightProvider) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		entries:       entries,
		settings:      settings,
		sync:          coordinator,
		insights:      advisor,
		rateLimiter:   newRateLimiter(),
		overviewCache: cache.NewLRU[monthOverview](100, 5*time.Minute),
		trendCache:    cache.NewLRU[[]core.TrendPoint](50, 5*time.Minute),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/entries", s.withSecurityHeaders(s.handleEntries))
	mux.HandleFunc("/api/entries/", s.withSecurityHeaders(s.handleEntryByID))
	mux.HandleFunc("/api/overview", s.withSecurityHeaders(s.handleOverview))
	mux.HandleFunc("/api/trend", s.withSecurityHeaders(s.handleTrend))
	mux.HandleFunc("/api/insights", s.withSecurityHeaders(s.handleInsights))

	mux.HandleFunc("/api/profile", s.withSecurityHeaders(s.handleProfile))
	mux.HandleFunc("/api/voices", s.withSecurityHeaders(s.handleVoices))
	mux.HandleFunc("/api/preferences", s.withSecurityHeaders(s.handlePreferences))

	mux.HandleFunc("/api/sync", s.withSecurityHeaders(s.handleSyncTrigger))
	mux.HandleFunc("/api/sync/status", s.withSecurityHeaders(s.handleSyncStatus))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateAggregates purges the cached aggregates after any entry mutation.
func (s *Server) invalidateAggregates() {
	s.overviewCache.Purge()
	s.trendCache.Purge()
}

func periodKey(year int, month time.Month) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(int(month))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.entries.List(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	profile := s.settings.Profile(r.Context())
	theme := s.settings.Preference(r.Context(), ledger.PrefTheme)
	if theme == "" {
		theme = "light"
	}

	data := struct {
		ProfileName string
		Theme       string
	}{
		ProfileName: profile.Name,
		Theme:       theme,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
