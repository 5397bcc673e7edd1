package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	red "telegram-image-bot/internal/infra/redis"
	"telegram-image-bot/internal/probe"
	"telegram-image-bot/internal/usecase"
)

// Server is the ops surface: liveness, metrics and an authenticated status
// endpoint. It never serves bot traffic.
type Server struct {
	redis    red.RedisClient
	checker  *probe.Checker
	botToken string
	genUC    usecase.GenerationUseCase
	provider string
	auth     *AuthManager
	log      *zerolog.Logger

	startedAt time.Time
	server    *http.Server
}

func NewServer(
	port int,
	redisClient red.RedisClient,
	checker *probe.Checker,
	botToken string,
	genUC usecase.GenerationUseCase,
	provider string,
	auth *AuthManager,
	log *zerolog.Logger,
) *Server {
	s := &Server{
		redis:     redisClient,
		checker:   checker,
		botToken:  botToken,
		genUC:     genUC,
		provider:  provider,
		auth:      auth,
		log:       log,
		startedAt: time.Now(),
	}
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.routes(),
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.auth.RequireAuth)
		r.Get("/status", s.handleStatus)
	})
	return r
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("ops server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleHealthz reports process liveness plus Redis and Telegram
// reachability. Any failed dependency turns the response into a 503.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probe.DefaultTimeout)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if s.redis != nil {
		if err := s.redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}
	if s.checker != nil {
		if _, err := s.checker.Check(ctx, s.botToken); err != nil {
			checks["telegram"] = err.Error()
			healthy = false
		} else {
			checks["telegram"] = "ok"
		}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		"provider":       s.provider,
	}
	if s.genUC != nil {
		resp["default_model"] = s.genUC.DefaultModel()
		if models, err := s.genUC.ListModels(r.Context()); err == nil {
			resp["models"] = models
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
