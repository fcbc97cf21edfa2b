// Package httpapi exposes the engine's host-facing API as a JSON HTTP
// service. All request and response bodies are plain nested maps and
// arrays, so a canvas UI can persist, import and export graphs freely.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/ports"
)

// Server routes HTTP requests to the engine.
type Server struct {
	engine ports.Engine
}

// Option configures the handler.
type Option func(*config)

type config struct {
	gatherer prometheus.Gatherer
}

// WithMetricsGatherer mounts /metrics serving the given gatherer.
func WithMetricsGatherer(g prometheus.Gatherer) Option {
	return func(c *config) {
		c.gatherer = g
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine ports.Engine, opts ...Option) http.Handler {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Server{engine: engine}
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/graph/sync", s.syncGraph)
	r.Post("/evaluate", s.evaluateAll)
	r.Post("/nodes/{id}/evaluate", s.evaluateNode)
	r.Post("/nodes/{id}/controls", s.updateControls)
	r.Get("/snapshot", s.snapshot)

	return r
}

func (s *Server) syncGraph(w http.ResponseWriter, r *http.Request) {
	var snapshot domain.GraphSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.engine.SyncGraph(r.Context(), &snapshot); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, s.engine.Snapshot())
}

func (s *Server) evaluateAll(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.EvaluateAll(r.Context()); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, s.engine.Snapshot())
}

func (s *Server) evaluateNode(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.EvaluateNode(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, s.engine.Snapshot())
}

func (s *Server) updateControls(w http.ResponseWriter, r *http.Request) {
	var values map[string]any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.engine.UpdateNodeControls(r.Context(), chi.URLParam(r, "id"), values); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, s.engine.Snapshot())
}

func (s *Server) snapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.engine.Snapshot())
}

func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrNodeNotFound) {
		status = http.StatusNotFound
	}
	writeStatusJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	writeStatusJSON(w, http.StatusOK, v)
}

func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
