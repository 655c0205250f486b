package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rmitchellscott/wxcraft/internal/observability"
)

// RouterConfig carries the middleware settings for NewRouter.
type RouterConfig struct {
	RequestTimeout time.Duration
	RateLimitRPS   int // 0 disables rate limiting
	RateLimitBurst int
}

// NewLimiter returns the token bucket for cfg, or nil when rate limiting is off.
func (cfg RouterConfig) NewLimiter() *rate.Limiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = cfg.RateLimitRPS
	}
	return rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
}

// NewRouter wires the handler routes. Report routes sit behind the rate
// limiter and request timeout; health and metrics do not.
func NewRouter(h *Handler, cfg RouterConfig, logger *zap.Logger) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)
	router.HandleFunc("/health", h.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)

	reports := router.NewRoute().Subrouter()
	reports.Use(RateLimitMiddleware(cfg.NewLimiter()))
	if cfg.RequestTimeout > 0 {
		reports.Use(TimeoutMiddleware(cfg.RequestTimeout))
	}
	reports.HandleFunc("/metar/{station}", h.GetMETAR).Methods(http.MethodGet)
	reports.HandleFunc("/taf/{station}", h.GetTAF).Methods(http.MethodGet)
	reports.HandleFunc("/decode/metar", h.DecodeMETAR).Methods(http.MethodPost)
	reports.HandleFunc("/decode/taf", h.DecodeTAF).Methods(http.MethodPost)
	reports.HandleFunc("/nearest", h.GetNearest).Methods(http.MethodGet)

	return router
}
