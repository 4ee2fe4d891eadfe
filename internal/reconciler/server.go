package reconciler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server exposes the stats of in-flight reconciliation runs over HTTP,
// for watching long runs from the outside.
type Server struct {
	logger *zap.Logger
	runs   map[string]*Reconciler
	mu     sync.RWMutex
}

type RunInfo struct {
	ID    string `json:"id"`
	Stats Stats  `json:"stats"`
}

func NewServer(logger *zap.Logger) *Server {
	return &Server{
		logger: logger,
		runs:   make(map[string]*Reconciler),
	}
}

func (s *Server) RegisterRun(r *Reconciler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[r.ID] = r
	s.logger.Info("run registered", zap.String("run_id", r.ID))
}

func (s *Server) UnregisterRun(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[id]; exists {
		delete(s.runs, id)
		s.logger.Info("run unregistered", zap.String("run_id", id))
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Route("/api/v1/runs", func(r chi.Router) {
		r.Get("/", s.listRuns)
		r.Get("/{id}", s.getRun)
	})

	return r
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]RunInfo, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, RunInfo{
			ID:    run.ID,
			Stats: run.Stats(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.RLock()
	run, exists := s.runs[id]
	s.mu.RUnlock()

	if !exists {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	info := RunInfo{
		ID:    run.ID,
		Stats: run.Stats(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}

	s.logger.Info("starting run status server", zap.String("addr", addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down run status server")
		srv.Shutdown(context.Background())
	}()

	return srv.ListenAndServe()
}
