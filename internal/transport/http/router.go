package http

import (
	"net/http"
	"strings"

	"github.com/devmetrics/gitpulse/internal/auth"
	"github.com/devmetrics/gitpulse/internal/config"
	"github.com/devmetrics/gitpulse/internal/infrastructure/telemetry"
	"github.com/devmetrics/gitpulse/internal/processing/export"
	"github.com/devmetrics/gitpulse/internal/processing/profiles"
	"github.com/devmetrics/gitpulse/internal/processing/shares"
	"github.com/devmetrics/gitpulse/internal/processing/stats"
	"github.com/devmetrics/gitpulse/internal/transport/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var spanNames = map[string]string{
	"GET /health":                     "health",
	"GET /metrics":                    "metrics",
	"GET /auth/github/login":          "auth.login",
	"GET /auth/github/callback":       "auth.callback",
	"GET /api/profile":                "profile.get",
	"PATCH /api/profile":              "profile.update",
	"GET /api/dashboard":              "dashboard.get",
	"POST /api/export":                "export.run",
	"POST /api/shares":                "shares.create",
	"GET /api/shares":                 "shares.list",
	"PATCH /api/shares/{shareId}":     "shares.update",
	"DELETE /api/shares/{shareId}":    "shares.delete",
	"GET /api/shares/{shareId}/views": "shares.views",
	"GET /shared/{shareId}":           "shared.view",
}

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Shares   *shares.Service
	Profiles *profiles.Service
	Export   *export.Service
	Engine   *stats.Engine
	Provider *auth.GitHubProvider
	Tokens   *auth.TokenService

	// Optional limiters; nil disables the corresponding limit.
	CreateLimiter *middleware.RedisFixedWindowLimiter
	ViewLimiter   *middleware.RedisFixedWindowLimiter
}

type RouterOptions struct {
	EnableCORS    bool
	EnableLogging bool
	EnableMetrics bool
}

func DefaultRouterOptions() RouterOptions {
	return RouterOptions{
		EnableCORS:    true,
		EnableLogging: true,
		EnableMetrics: true,
	}
}

func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	return NewRouterWithOptions(cfg, deps, DefaultRouterOptions())
}

func NewRouterWithOptions(cfg *config.Config, deps Dependencies, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	healthHandler := NewHealthHandler()
	authHandler := NewAuthHandler(cfg, deps.Provider, deps.Tokens, deps.Profiles)
	profileHandler := NewProfileHandler(deps.Profiles)
	dashboardHandler := NewDashboardHandler(deps.Profiles, deps.Engine)
	exportHandler := NewExportHandler(deps.Profiles, deps.Export)
	sharesHandler := NewSharesHandler(cfg, deps.Shares)
	sharedHandler := NewSharedHandler(deps.Shares)

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", healthHandler.Metrics())

	mux.HandleFunc("GET /auth/github/login", authHandler.Login)
	mux.HandleFunc("GET /auth/github/callback", authHandler.Callback)

	authOnly := middleware.AuthMiddleware(deps.Tokens)

	createMiddlewares := []func(http.Handler) http.Handler{authOnly}
	if deps.CreateLimiter != nil {
		createMiddlewares = append(createMiddlewares, middleware.RateLimitMiddleware(deps.CreateLimiter))
	}

	mux.Handle("GET /api/profile", authOnly(http.HandlerFunc(profileHandler.Get)))
	mux.Handle("PATCH /api/profile", authOnly(http.HandlerFunc(profileHandler.Update)))
	mux.Handle("GET /api/dashboard", authOnly(http.HandlerFunc(dashboardHandler.Get)))
	mux.Handle("POST /api/export", authOnly(http.HandlerFunc(exportHandler.Export)))

	mux.Handle("POST /api/shares", middleware.Chain(
		http.HandlerFunc(sharesHandler.Create),
		createMiddlewares...,
	))
	mux.Handle("GET /api/shares", authOnly(http.HandlerFunc(sharesHandler.List)))
	mux.Handle("PATCH /api/shares/{shareId}", authOnly(http.HandlerFunc(sharesHandler.Update)))
	mux.Handle("DELETE /api/shares/{shareId}", authOnly(http.HandlerFunc(sharesHandler.Delete)))
	mux.Handle("GET /api/shares/{shareId}/views", authOnly(http.HandlerFunc(sharesHandler.Views)))

	var sharedView http.Handler = http.HandlerFunc(sharedHandler.View)
	if deps.ViewLimiter != nil {
		sharedView = middleware.RateLimitMiddleware(deps.ViewLimiter)(sharedView)
	}
	mux.Handle("GET /shared/{shareId}", sharedView)

	var innerHandler http.Handler = mux
	if opts.EnableCORS {
		innerHandler = middleware.CORSMiddleware(innerHandler)
	}
	if opts.EnableLogging {
		innerHandler = middleware.LoggingMiddleware(innerHandler)
	}
	if opts.EnableMetrics {
		innerHandler = middleware.MetricsMiddleware(innerHandler)
	}

	otelOptions := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			key := r.Method + " " + r.Pattern
			if name, ok := spanNames[key]; ok {
				return name
			}
			if r.Pattern != "" {
				return r.Pattern
			}
			path := strings.TrimSpace(r.URL.Path)
			if path == "" {
				path = "/"
			}
			return path
		}),
	}

	if telemetry.TracerProvider != nil {
		otelOptions = append(otelOptions, otelhttp.WithTracerProvider(telemetry.TracerProvider))
	}

	return otelhttp.NewHandler(innerHandler, cfg.App.Name, otelOptions...)
}
