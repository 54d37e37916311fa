// internal/api/http/router.go

// Package http exposes the salary queries as a JSON API.
package http

import (
	"context"
	nethttp "net/http"
	"time"

	"fairpay/internal/common/config"
	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"
	"fairpay/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the router. Ready reports whether dependencies are usable; nil
// means always ready.
type Options struct {
	Service        *service.Service
	Logger         logger.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
	Ready          func(ctx context.Context) error
	Metrics        nethttp.Handler
}

type api struct {
	svc    *service.Service
	logger logger.Logger
	ready  func(ctx context.Context) error
}

func NewRouter(opts Options) nethttp.Handler {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Metrics == nil {
		opts.Metrics = promhttp.Handler()
	}

	a := &api{
		svc:    opts.Service,
		logger: opts.Logger.WithFields(map[string]interface{}{"component": "http"}),
		ready:  opts.Ready,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(a.logger), middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", a.healthz)
	r.Get("/readyz", a.readyz)
	r.Method(nethttp.MethodGet, "/metrics", opts.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))

		r.Get("/occupations", a.listOccupations)
		r.Get("/occupations/{slug}", a.getOccupation)
		r.Get("/countries", a.listCountries)
		r.Get("/countries/{code}/cities", a.listCities)
		r.Get("/convert", a.convert)
		r.Get("/percentile/country", a.countryPercentile)
		r.Get("/percentile/city", a.cityPercentile)
		r.Get("/comparisons", a.comparisons)
		r.Get("/relocation", a.relocation)
	})

	r.NotFound(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, nethttp.StatusNotFound, errorBody{Error: errorPayload{Code: errors.ErrCodeNotFound, Message: "route not found"}})
	})
	return r
}

// NewServer builds the http.Server for the configured address and timeouts.
func NewServer(cfg config.ServerConfig, handler nethttp.Handler) *nethttp.Server {
	return &nethttp.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       config.GetDuration(cfg.ReadTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.GetDuration(cfg.WriteTimeout),
		IdleTimeout:       60 * time.Second,
	}
}
