package http

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"stt-gateway/internal/app"
	"stt-gateway/internal/service/bridge"
)

// SessionLister lists live sessions.
type SessionLister interface {
	Sessions() []bridge.Info
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(application *app.Application, sessions SessionLister) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	// Health endpoints
	live := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
	ready := func(w http.ResponseWriter, _ *http.Request) {
		if !application.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
	r.Get("/healthz", live)
	r.Get("/readyz", ready)
	r.Get("/v1/liveness", live)
	r.Get("/v1/readiness", ready)

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Get("/sessions", func(w http.ResponseWriter, _ *http.Request) {
			list := sessions.Sessions()
			sort.Slice(list, func(i, j int) bool { return list[i].StartedAt.Before(list[j].StartedAt) })
			writeJSON(w, map[string]any{
				"count":    len(list),
				"sessions": list,
			})
		})
		r.Get("/sessions/{id}", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			for _, info := range sessions.Sessions() {
				if info.SessionID == id {
					writeJSON(w, info)
					return
				}
			}
			http.Error(w, "session not found", http.StatusNotFound)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
