package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-translation-gate/internal/config"
	red "telegram-translation-gate/internal/infra/redis"
)

// Server exposes the operational endpoints: liveness, readiness and the
// Prometheus scrape target. It carries no bot functionality.
type Server struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	cache  red.RedisClient
	log    *zerolog.Logger
	server *http.Server
}

func NewServer(cfg *config.Config, pool *pgxpool.Pool, cache red.RedisClient, log *zerolog.Logger) *Server {
	return &Server{cfg: cfg, pool: pool, cache: cache, log: log}
}

func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Admin.Port),
		Handler: r,
	}

	s.log.Info().Int("port", s.cfg.Admin.Port).Msg("ops http server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// handleReady reports whether the backing stores answer. A failing
// dependency flips readiness without killing the process.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		s.log.Warn().Err(err).Msg("readiness: postgres unreachable")
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := s.cache.Ping(ctx); err != nil {
		s.log.Warn().Err(err).Msg("readiness: redis unreachable")
		http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "READY")
}
