package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yndnr/shardkv-go/internal/core/domain"
	"github.com/yndnr/shardkv-go/internal/core/service"
	"github.com/yndnr/shardkv-go/internal/telemetry/logger"
)

const (
	// bodySlack covers the JSON envelope around a maximal key and value.
	bodySlack = 4 << 10

	// jsonEscapeFactor is the largest growth of one byte in a JSON string.
	// It also covers base64, which grows by 4/3.
	jsonEscapeFactor = 6
)

// Route patterns served by Handler.
const (
	RouteGet    = "GET /api/{key...}"
	RoutePut    = "POST /api"
	RouteDelete = "DELETE /api/{key...}"
	RouteHealth = "GET /health"
	RouteReady  = "GET /ready"
	RouteStats  = "GET /admin/v1/stats"
)

// Routes lists every pattern Handler registers.
func Routes() []string {
	return []string{RouteGet, RoutePut, RouteDelete, RouteHealth, RouteReady, RouteStats}
}

// Handler is the main HTTP handler that routes requests to the KV service.
type Handler struct {
	kv    *service.KVService
	mux   *http.ServeMux
	ready func() bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithReadiness sets the probe behind /ready. The default is always ready.
func WithReadiness(fn func() bool) Option {
	return func(h *Handler) {
		h.ready = fn
	}
}

// New creates a new Handler over kv.
func New(kv *service.KVService, opts ...Option) *Handler {
	h := &Handler{
		kv:    kv,
		mux:   http.NewServeMux(),
		ready: func() bool { return true },
	}
	for _, opt := range opts {
		opt(h)
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc(RouteGet, h.handleGet)
	h.mux.HandleFunc(RoutePut, h.handlePut)
	h.mux.HandleFunc(RouteDelete, h.handleDelete)

	h.mux.HandleFunc(RouteHealth, h.handleHealth)
	h.mux.HandleFunc(RouteReady, h.handleReady)

	h.mux.HandleFunc(RouteStats, h.handleStats)
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	WriteError(w, status, code, message)
}

// WriteError writes the standard error body with the X-Error-Code header.
// Middleware uses it for rate limiting and panics.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: message})
}

// handleServiceError converts service errors to HTTP responses. Anything
// that is not a client error is logged and hidden behind SKV-SYS-5000.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	de, ok := domain.AsDomainError(err)
	if !ok || de.Status() >= http.StatusInternalServerError {
		logger.L(r.Context()).Error("internal error", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternal.Code, domain.ErrInternal.Message)
		return
	}
	h.writeError(w, de.Status(), de.Code, de.Text())
}
