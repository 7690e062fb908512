// Package serverapp wires repositories, the sync client and the HTTP
// handlers into one http.Handler, so cmd/server and the integration
// tests build the exact same app.
package serverapp

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/migueltaller/Commagra-Planing/internal/config"
	"github.com/migueltaller/Commagra-Planing/internal/job"
	"github.com/migueltaller/Commagra-Planing/internal/settings"
	"github.com/migueltaller/Commagra-Planing/internal/share"
	"github.com/migueltaller/Commagra-Planing/internal/sheet"
	staticfiles "github.com/migueltaller/Commagra-Planing/static"
)

type Options struct {
	Config *config.Config
	Logger *logrus.Logger
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	jobRepo, err := job.NewFileRepo(cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}
	settingsRepo, err := settings.NewFileRepo(cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}
	seedWebhookURL(settingsRepo, cfg, logger)

	sheetClient := sheet.NewClient(settingsRepo, logger)

	jobHandler := job.NewHandler(jobRepo)
	jobHandler.SetPusher(sheetClient)
	jobHandler.SetSettingsSource(settingsRepo)
	jobHandler.SetLogger(logger)
	jobHandler.SetPushTimeout(time.Duration(cfg.Sheet.PushTimeoutS) * time.Second)

	settingsHandler := settings.NewHandler(settingsRepo)
	syncHandler := sheet.NewHandler(sheetClient, jobRepo, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "commagra",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := os.Stat(cfg.DataDir); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "data directory unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "commagra"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.List)
			r.Post("/", jobHandler.Create)
			r.Get("/stats", jobHandler.Stats)
			r.Put("/{id}/status", jobHandler.UpdateStatus)
			r.Delete("/{id}", jobHandler.Archive)
			r.Post("/{id}/notify", jobHandler.Notify)
		})
		r.Get("/settings", settingsHandler.Get)
		r.Put("/settings", settingsHandler.Put)
		r.Post("/sync/pull", syncHandler.Pull)
		r.Post("/sync/test", syncHandler.Test)
		r.Get("/share", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, share.InfoFor(cfg.BaseURL))
		})
	})

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if cfg.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(cfg.StaticDir))
	}
	r.Handle("/static/*", http.StripPrefix("/static/", staticHandler))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		staticHandler.ServeHTTP(w, r)
	})

	return r, nil
}

// seedWebhookURL pre-fills a fresh install's settings with the configured
// default script URL so a new device syncs without anyone pasting it again.
func seedWebhookURL(repo *settings.FileRepo, cfg *config.Config, logger *logrus.Logger) {
	if cfg.Sheet.DefaultWebhookURL == "" {
		return
	}
	s := repo.Get()
	if s.SheetWebhookURL != "" {
		return
	}
	s.SheetWebhookURL = cfg.Sheet.DefaultWebhookURL
	if err := repo.Put(s); err != nil {
		logger.WithError(err).Warn("could not seed webhook url")
		return
	}
	logger.WithField("url", s.SheetWebhookURL).Info("seeded webhook url from config")
}

func accessLog(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.WithFields(logrus.Fields{
				"request_id":  middleware.GetReqID(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_ip":   r.RemoteAddr,
			}).Info("http request")
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
