package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// OpsServer exposes the operational surface every worker process carries:
// liveness and the Prometheus registry.
type OpsServer struct {
	srv *http.Server
	log *zerolog.Logger
}

func NewOpsServer(port int, logger *zerolog.Logger) *OpsServer {
	l := logger.With().Str("component", "OpsServer").Logger()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return &OpsServer{
		srv: &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: r},
		log: &l,
	}
}

// Start serves until Shutdown. Run it in a goroutine.
func (s *OpsServer) Start() {
	s.log.Info().Str("addr", s.srv.Addr).Msg("ops server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Error().Err(err).Msg("ops server error")
	}
}

func (s *OpsServer) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}
