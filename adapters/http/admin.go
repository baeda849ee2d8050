package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/calcstack/calcd/adapters/auth"
	"github.com/calcstack/calcd/app"
	"github.com/calcstack/calcd/domain/audit"
)

// AdminHandler serves the analytics endpoint, guarded by a bearer token
// with the admin role.
type AdminHandler struct {
	analytics *app.AnalyticsService
	tokens    *auth.TokenService
	logger    zerolog.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(analytics *app.AnalyticsService, tokens *auth.TokenService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{analytics: analytics, tokens: tokens, logger: logger}
}

// Routes returns the admin subrouter.
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.requireAdmin)
	r.Get("/analytics", h.Analytics)
	return r
}

// requireAdmin rejects requests without a valid admin bearer token:
// 401 for missing or unverifiable tokens, 403 for valid non-admin ones.
func (h *AdminHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			return
		}

		claims, err := h.tokens.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		if claims.Role != auth.RoleAdmin {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin role required"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

type endpointSummaryResponse struct {
	APIName      string `json:"apiName"`
	RequestCount int64  `json:"requestCount"`
	ErrorCount   int64  `json:"errorCount"`
	AvgLatencyMs int64  `json:"avgLatencyMs"`
}

type clientSummaryResponse struct {
	IPAddress    string `json:"ipAddress"`
	RequestCount int64  `json:"requestCount"`
}

type analyticsResponse struct {
	PeriodStart   time.Time                 `json:"periodStart"`
	PeriodEnd     time.Time                 `json:"periodEnd"`
	TotalRequests int64                     `json:"totalRequests"`
	TotalErrors   int64                     `json:"totalErrors"`
	Endpoints     []endpointSummaryResponse `json:"endpoints"`
	TopClients    []clientSummaryResponse   `json:"topClients"`
}

// Analytics returns aggregate usage for the trailing period. The period
// comes from the optional "period" query parameter (Go duration syntax,
// default 24h, max 30 days).
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	period := 24 * time.Hour
	if raw := r.URL.Query().Get("period"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "period must be a positive duration"})
			return
		}
		if parsed > 30*24*time.Hour {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "period must be at most 720h"})
			return
		}
		period = parsed
	}

	summary, err := h.analytics.Summary(r.Context(), period)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, toAnalyticsResponse(summary))
}

func toAnalyticsResponse(s audit.Summary) analyticsResponse {
	endpoints := make([]endpointSummaryResponse, 0, len(s.Endpoints))
	for _, e := range s.Endpoints {
		endpoints = append(endpoints, endpointSummaryResponse{
			APIName:      e.APIName,
			RequestCount: e.RequestCount,
			ErrorCount:   e.ErrorCount,
			AvgLatencyMs: e.AvgLatencyMs,
		})
	}
	clients := make([]clientSummaryResponse, 0, len(s.TopClients))
	for _, c := range s.TopClients {
		clients = append(clients, clientSummaryResponse{
			IPAddress:    c.IPAddress,
			RequestCount: c.RequestCount,
		})
	}
	return analyticsResponse{
		PeriodStart:   s.PeriodStart,
		PeriodEnd:     s.PeriodEnd,
		TotalRequests: s.TotalRequests,
		TotalErrors:   s.TotalErrors,
		Endpoints:     endpoints,
		TopClients:    clients,
	}
}
