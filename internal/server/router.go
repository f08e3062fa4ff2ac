package server

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/cicd-demo-api/internal/config"
	"github.com/janisto/cicd-demo-api/internal/http/routes"
	applog "github.com/janisto/cicd-demo-api/internal/platform/logging"
	"github.com/janisto/cicd-demo-api/internal/platform/metrics"
	appmiddleware "github.com/janisto/cicd-demo-api/internal/platform/middleware"
	"github.com/janisto/cicd-demo-api/internal/platform/respond"
)

const (
	apiTitle    = "CI/CD Demo API"
	docsPath    = "/api-docs"
	metricsPath = "/metrics"
	// maxBodyBytes caps request bodies; every route is a GET.
	maxBodyBytes = 1 << 20
)

// Option customizes NewHandler and Start.
type Option func(*options)

type options struct {
	started time.Time
	now     func() time.Time
}

// WithClock replaces time.Now for timestamps and uptime.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithStartTime sets the uptime reference point (default: process start).
func WithStartTime(t time.Time) Option {
	return func(o *options) { o.started = t }
}

// NewHandler assembles the router: middleware stack, problem-details fallbacks,
// the huma API with every route, and /metrics when enabled.
func NewHandler(cfg *config.Config, opts ...Option) http.Handler {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New(cfg.Version, cfg.Environment)
	}

	stack := []func(http.Handler) http.Handler{
		appmiddleware.Security(docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; the service is meant to run behind a proxy or in CI.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(maxBodyBytes),
		// /health/ routes like /health.
		chimiddleware.StripSlashes,
		// HEAD is served by the GET handler; net/http drops the body.
		chimiddleware.GetHead,
		applog.RequestLogger(),
		applog.AccessLogger(),
	}
	if collector != nil {
		stack = append(stack, collector.Middleware())
	}
	stack = append(stack, respond.Recoverer())
	router.Use(stack...)

	if collector != nil {
		router.Method(http.MethodGet, metricsPath, collector.Handler())
	}

	humaCfg := huma.DefaultConfig(apiTitle, cfg.Version)
	humaCfg.DocsPath = docsPath
	// Drop the $schema link transformer so payloads carry exactly the documented keys.
	humaCfg.CreateHooks = nil
	api := humachi.New(router, humaCfg)
	advertiseCBOR(api)

	routes.Register(api, routes.Deps{
		Version:     cfg.Version,
		Environment: cfg.Environment,
		Started:     o.started,
		Now:         o.now,
	})
	return router
}

// advertiseCBOR lists application/cbor next to application/json in the OpenAPI document.
func advertiseCBOR(api huma.API) {
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)
}
