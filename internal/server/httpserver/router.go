package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/yndnr/shardkv-go/internal/core/service"
	"github.com/yndnr/shardkv-go/internal/server/httpserver/handler"
)

// RouteMetrics is the Prometheus scrape endpoint.
const RouteMetrics = "GET /metrics"

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// KV handles key operations.
	KV *service.KVService

	// Logger for access and panic logs.
	Logger *slog.Logger

	// Recorder receives per-route request metrics. Optional.
	Recorder HTTPRecorder

	// MetricsHandler serves /metrics. Optional.
	MetricsHandler http.Handler

	// RateLimiters limits requests per client IP. Nil disables limiting.
	RateLimiters *service.RateLimiterRegistry

	// ClientIP resolves the client behind a request. Nil uses the peer
	// address and ignores forwarding headers.
	ClientIP *ClientIPResolver

	// Ready backs /ready. Nil means always ready.
	Ready func() bool
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	var opts []handler.Option
	if cfg.Ready != nil {
		opts = append(opts, handler.WithReadiness(cfg.Ready))
	}
	h := handler.New(cfg.KV, opts...)

	mux := http.NewServeMux()
	for _, pattern := range handler.Routes() {
		route := routeLabel(pattern)
		chain := []Middleware{
			Recover(log),
			RequestID(),
			Metrics(cfg.Recorder, route),
			AccessLog(log, route, cfg.ClientIP),
		}
		// Probes are never rate limited.
		if !isProbe(pattern) {
			chain = append(chain, RateLimit(cfg.RateLimiters, cfg.ClientIP))
		}
		mux.Handle(pattern, Chain(h, chain...))
	}

	if cfg.MetricsHandler != nil {
		mux.Handle(RouteMetrics, Chain(cfg.MetricsHandler, Recover(log)))
	}

	return mux
}

// routeLabel strips the method from a pattern: "GET /api/{key...}" -> "/api/{key...}".
func routeLabel(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}

func isProbe(pattern string) bool {
	return pattern == handler.RouteHealth || pattern == handler.RouteReady
}
