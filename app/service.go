// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/calcstack/calcd/adapters/metrics"
	"github.com/calcstack/calcd/domain/audit"
	"github.com/calcstack/calcd/domain/ratelimit"
	"github.com/calcstack/calcd/ports"
)

// Error is a structured API error (value type).
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`

	// audited marks errors that still produce a usage record: the
	// request reached a calculation or an upstream call. Validation
	// rejections never set it.
	audited bool
}

// Errorf builds a 400 validation error. Not audited.
func Errorf(message string) *Error {
	return &Error{Status: 400, Message: message}
}

// AuditedError builds an error for a request that got past validation.
func AuditedError(status int, message string) *Error {
	return &Error{Status: status, Message: message, audited: true}
}

// Common error responses.
var (
	ErrRateLimited = Error{Status: 429, Message: "rate limit exceeded"}
	ErrLimiterDown = Error{Status: 503, Message: "service temporarily unavailable"}
	ErrInternal    = Error{Status: 500, Message: "internal error", audited: true}
)

// Request is one parsed calculation request, independent of transport.
type Request struct {
	API    string // calculator name, e.g. "bmi"
	Path   string // request path, for the usage record
	IP     string
	APIKey string // raw key from X-API-Key, may be empty
	Body   json.RawMessage
}

// Response is the transport-independent outcome.
type Response struct {
	Status  int
	Body    any // response struct or *Error
	Headers map[string]string
}

// APIKey is a configured client key: an identifier plus a bcrypt hash of
// the key material.
type APIKey struct {
	ID   string
	Hash []byte
}

// Endpoint binds a calculator name to its executor and optional rate
// limit.
type Endpoint struct {
	Name  string
	Limit *ratelimit.Config // nil = not rate limited
	Exec  func(ctx context.Context, s *CalcService, body json.RawMessage) (any, *Error)
}

// DynamicConfig contains hot-reloadable configuration.
type DynamicConfig struct {
	Keys            []APIKey
	KeyedMultiplier int // limit multiplier for keyed clients, >= 1
}

// Deps contains dependencies for CalcService.
type Deps struct {
	RateLimit ports.RateLimitStore
	Audit     ports.AuditRecorder
	Solver    ports.Solver
	Clock     ports.Clock
	Random    ports.Random
	IDGen     ports.IDGenerator
	Metrics   *metrics.Collector
	Logger    zerolog.Logger
}

// CalcService executes calculation requests: key lookup, rate limiting,
// dispatch to the endpoint executor, and the audit side effect.
type CalcService struct {
	rateLimit ports.RateLimitStore
	audit     ports.AuditRecorder
	solver    ports.Solver
	clock     ports.Clock
	random    ports.Random
	idGen     ports.IDGenerator
	metrics   *metrics.Collector
	logger    zerolog.Logger

	endpoints map[string]Endpoint

	// Dynamic configuration (hot-reloadable)
	dynamicCfg atomic.Pointer[DynamicConfig]
}

// NewCalcService creates a calc service with the standard endpoint set.
func NewCalcService(deps Deps, cfg DynamicConfig, endpoints []Endpoint) *CalcService {
	s := &CalcService{
		rateLimit: deps.RateLimit,
		audit:     deps.Audit,
		solver:    deps.Solver,
		clock:     deps.Clock,
		random:    deps.Random,
		idGen:     deps.IDGen,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		endpoints: make(map[string]Endpoint, len(endpoints)),
	}
	for _, e := range endpoints {
		s.endpoints[e.Name] = e
	}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig swaps the hot-reloadable configuration.
// Thread-safe; may be called while handling requests.
func (s *CalcService) UpdateConfig(cfg DynamicConfig) {
	if cfg.KeyedMultiplier < 1 {
		cfg.KeyedMultiplier = 1
	}
	s.dynamicCfg.Store(&cfg)
}

// Endpoints returns the registered endpoint names.
func (s *CalcService) Endpoints() []string {
	names := make([]string, 0, len(s.endpoints))
	for name := range s.endpoints {
		names = append(names, name)
	}
	return names
}

// Handle processes one calculation request.
// Control flow: key match -> rate limit -> executor -> audit -> response.
func (s *CalcService) Handle(ctx context.Context, req Request) Response {
	now := s.clock.Now()
	cfg := s.dynamicCfg.Load()

	endpoint, ok := s.endpoints[req.API]
	if !ok {
		return errorResponse(&Error{Status: 404, Message: "unknown calculator"}, nil)
	}

	// Match the optional API key against configured hashes (bcrypt
	// compare, per key). The hash ID, never the key, reaches the log.
	keyID := ""
	if req.APIKey != "" {
		for _, k := range cfg.Keys {
			if bcrypt.CompareHashAndPassword(k.Hash, []byte(req.APIKey)) == nil {
				keyID = k.ID
				break
			}
		}
	}

	// Rate limit, where the endpoint carries one
	headers := map[string]string{}
	if endpoint.Limit != nil {
		rlCfg := *endpoint.Limit
		if keyID != "" {
			rlCfg.Limit *= cfg.KeyedMultiplier
		}

		count, resetAt, err := s.rateLimit.Take(ctx, req.API+":"+req.IP, rlCfg, now)
		if err != nil {
			// Fail closed: an unreachable limiter store must not
			// become an open door.
			if s.metrics != nil {
				s.metrics.RateLimitStoreFails.Inc()
			}
			s.logger.Error().Err(err).Str("api", req.API).Msg("rate limit store failure")
			e := ErrLimiterDown
			return errorResponse(&e, nil)
		}

		result := ratelimit.FromCount(count, rlCfg, resetAt)
		headers["X-RateLimit-Limit"] = strconv.Itoa(rlCfg.Limit)
		headers["X-RateLimit-Remaining"] = strconv.Itoa(result.Remaining)
		if !result.Allowed {
			if s.metrics != nil {
				s.metrics.RateLimitHits.WithLabelValues(req.API).Inc()
			}
			headers["Retry-After"] = strconv.Itoa(ratelimit.RetryAfterSeconds(result, now))
			e := ErrRateLimited
			return errorResponse(&e, headers)
		}
	}

	// Execute
	result, apiErr := endpoint.Exec(ctx, s, req.Body)

	status := 200
	var body any = result
	if apiErr != nil {
		status = apiErr.Status
		body = apiErr
	}

	// Audit, after the outcome is known. Validation rejections carry no
	// usage record; everything that reached a calculation does.
	if apiErr == nil || apiErr.audited {
		respData, _ := json.Marshal(body)
		latency := s.clock.Now().Sub(now).Milliseconds()
		s.audit.Record(audit.New(
			s.idGen.New(), req.API, req.Path,
			req.Body, respData, status, latency, req.IP, keyID, now,
		))
	} else if s.metrics != nil {
		s.metrics.ValidationRejections.WithLabelValues(req.API).Inc()
	}

	if s.metrics != nil {
		s.metrics.RequestsTotal.WithLabelValues(req.API, strconv.Itoa(status)).Inc()
		s.metrics.RequestDuration.WithLabelValues(req.API).Observe(s.clock.Now().Sub(now).Seconds())
	}

	return Response{Status: status, Body: body, Headers: headers}
}

func errorResponse(e *Error, headers map[string]string) Response {
	return Response{Status: e.Status, Body: e, Headers: headers}
}
