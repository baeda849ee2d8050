// Package http provides the HTTP transport for the calculator API:
// routing, CORS, request decoding, and response encoding. All semantics
// live in the app layer; this package only moves bytes.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/calcstack/calcd/app"
)

// maxBodyBytes caps calculation request bodies. The largest legitimate
// payload is a few hundred bytes.
const maxBodyBytes = 64 * 1024

// CalcHandler serves the calculation endpoints under /api/.
type CalcHandler struct {
	service *app.CalcService
	logger  zerolog.Logger
}

// NewCalcHandler creates a calculation handler.
func NewCalcHandler(service *app.CalcService, logger zerolog.Logger) *CalcHandler {
	return &CalcHandler{service: service, logger: logger}
}

// ServeHTTP handles one calculator request. The calculator name is the
// trailing path segment under /api/.
func (h *CalcHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}
	if len(body) > maxBodyBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
		return
	}

	resp := h.service.Handle(r.Context(), app.Request{
		API:    chi.URLParam(r, "calculator"),
		Path:   r.URL.Path,
		IP:     clientIP(r),
		APIKey: r.Header.Get("X-API-Key"),
		Body:   body,
	})

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	writeJSON(w, resp.Status, resp.Body)
}

// clientIP returns the originating address. middleware.RealIP has
// already folded X-Forwarded-For / X-Real-IP into RemoteAddr.
func clientIP(r *http.Request) string {
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.HasSuffix(host, "]") {
		host = host[:i]
	}
	return strings.Trim(host, "[]")
}

func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, Authorization")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// HealthHandler provides liveness and readiness endpoints.
type HealthHandler struct {
	ready ReadinessChecker
}

// ReadinessChecker reports whether backing stores are reachable.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// NewHealthHandler creates a health handler. checker may be nil, in
// which case readiness always succeeds.
func NewHealthHandler(checker ReadinessChecker) *HealthHandler {
	return &HealthHandler{ready: checker}
}

// Liveness returns a simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness checks if the service is ready to handle traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready.Ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// VersionResponse is the /version payload.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// Version is set at build time via -ldflags.
var Version = "dev"

func versionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: Version, Service: "calcd"})
}

// RouterConfig holds optional configuration for the router.
type RouterConfig struct {
	MetricsEnabled bool
	AdminHandler   http.Handler // mounted at /api/admin when set
}

// NewRouter creates the main HTTP router.
func NewRouter(calc *CalcHandler, health *HealthHandler, logger zerolog.Logger, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", health.Liveness)
	r.Get("/healthz/ready", health.Readiness)
	r.Get("/version", versionHandler)

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	if cfg.AdminHandler != nil {
		r.Mount("/api/admin", cfg.AdminHandler)
	}

	r.Handle("/api/{calculator}", calc)

	return r
}

// NewLoggingMiddleware logs HTTP requests at debug level, skipping
// health and metrics probes.
func NewLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if strings.HasPrefix(r.URL.Path, "/healthz") || r.URL.Path == "/metrics" {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
