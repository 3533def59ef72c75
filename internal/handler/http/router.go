package http

import (
	"log/slog"
	"net/http"

	"briefly/internal/common/pagination"
	"briefly/internal/handler/http/auth"
	"briefly/internal/handler/http/middleware"
	"briefly/internal/handler/http/requestid"
	"briefly/internal/handler/http/respond"
	"briefly/internal/handler/http/summary"
	"briefly/internal/observability/tracing"
)

// RouterConfig holds everything the API router is built from.
type RouterConfig struct {
	Logger     *slog.Logger
	Summarizer summary.Summarizer
	// History is nil when no database is configured. Pass an untyped nil:
	// a nil *history.Service stored in the interface counts as configured.
	History      summary.History
	Auth         *auth.Authenticator
	RateLimiter  *middleware.RateLimiter // nil disables rate limiting
	CORS         middleware.CORSConfig
	Security     middleware.SecurityConfig
	Pagination   pagination.Config
	MaxBodyBytes int64
	Health       *HealthHandler
	Ready        *ReadyHandler
}

// NewRouter builds the API handler: routes plus the shared middleware chain.
//
// Order, outermost first: CORS, request id, security headers, rate limit,
// recover, logging, input validation, tracing, metrics. Tracing and metrics wrap the mux
// directly because they read the route pattern the mux stores on the request.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", cfg.Health)
	mux.Handle("GET /ready", cfg.Ready)
	mux.Handle("GET /live", &LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())
	mux.Handle("GET /{$}", indexHandler(cfg.Health))

	summary.Register(mux, cfg.Summarizer, cfg.History, cfg.Auth, cfg.Pagination)

	chain := []func(http.Handler) http.Handler{
		middleware.CORS(cfg.CORS),
		requestid.Middleware,
		middleware.SecurityHeaders(cfg.Security),
	}
	if cfg.RateLimiter != nil {
		chain = append(chain, cfg.RateLimiter.Middleware)
	}
	chain = append(chain,
		Recover(cfg.Logger),
		Logging(cfg.Logger),
		InputValidation(cfg.MaxBodyBytes),
		tracing.Middleware,
		MetricsMiddleware,
	)
	return Chain(mux, chain...)
}

func indexHandler(h *HealthHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]any{
			"service":  "briefly",
			"version":  h.Version,
			"backends": h.Backends,
		})
	})
}
