// Package httpapi serves the calculator as a JSON API over chi.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/xtding233/raisehell/internal/cascade"
	"github.com/xtding233/raisehell/internal/preset"
	"github.com/xtding233/raisehell/internal/sampler"
	"github.com/xtding233/raisehell/internal/service"
)

// Calculator is what the handlers need from the service layer.
type Calculator interface {
	Distribution(ctx context.Context, req service.DistributionRequest) (service.DistributionResult, error)
	HitChance(ctx context.Context, req service.HitChanceRequest) (service.HitChanceResult, error)
	Simulate(ctx context.Context, req service.SimulateRequest) (service.SimulateResult, error)
	SimulateCascade(ctx context.Context, req service.CascadeSimRequest) (service.CascadeSimResult, error)
}

var _ Calculator = (*service.Calculator)(nil)

// Server holds the handler dependencies.
type Server struct {
	Calc    Calculator
	Metrics http.Handler // nil disables /metrics
	Logger  *slog.Logger
}

type errorResp struct {
	Err string `json:"err"`
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         60 * 15,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	r.Route("/v1", func(rr chi.Router) {
		rr.Get("/distribution", s.handleDistribution)
		rr.Get("/hit-chance", s.handleHitChance)
		rr.Get("/simulate", s.handleSimulate)
		rr.Get("/simulate/cascade", s.handleSimulateCascade)
	})
	return r
}

func poolRequest(q *query) service.PoolRequest {
	return service.PoolRequest{
		Preset:    q.r.URL.Query().Get("preset"),
		Triggers:  q.uint32("triggers"),
		PoolSize:  q.uint32("pool"),
		Primary:   q.uint32("primary"),
		Toggle:    q.uint32("toggle"),
		Secondary: q.uint32("secondary"),
	}
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	req := service.DistributionRequest{PoolRequest: poolRequest(q), Parallel: q.bool("parallel")}
	if q.problem != "" {
		writeJSON(w, http.StatusBadRequest, errorResp{Err: q.problem})
		return
	}
	res, err := s.Calc.Distribution(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHitChance(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	req := service.HitChanceRequest{
		Hits:     q.required("hits"),
		PoolSize: q.required("pool"),
		Triggers: q.uint32("triggers"),
	}
	if q.problem != "" {
		writeJSON(w, http.StatusBadRequest, errorResp{Err: q.problem})
		return
	}
	res, err := s.Calc.HitChance(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	req := service.SimulateRequest{
		Hits:     q.required("hits"),
		PoolSize: q.required("pool"),
		Seed:     q.uint64("seed"),
	}
	if q.problem != "" {
		writeJSON(w, http.StatusBadRequest, errorResp{Err: q.problem})
		return
	}
	res, err := s.Calc.Simulate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSimulateCascade(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	req := service.CascadeSimRequest{
		PoolRequest: poolRequest(q),
		Trials:      q.int("trials"),
		Seed:        q.uint64("seed"),
	}
	if q.problem != "" {
		writeJSON(w, http.StatusBadRequest, errorResp{Err: q.problem})
		return
	}
	res, err := s.Calc.SimulateCascade(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, preset.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrLimitExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, cascade.ErrInvalidPool),
		errors.Is(err, preset.ErrInvalidPreset),
		errors.Is(err, sampler.ErrPoolTooSmall),
		errors.Is(err, sampler.ErrInvalidTrials):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError && s.Logger != nil {
		s.Logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	writeJSON(w, code, errorResp{Err: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
