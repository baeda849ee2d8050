// Package solver answers free-text math queries for the AI calculator
// endpoint. Plain arithmetic expressions are evaluated locally; anything
// else is delegated to an external LLM gateway.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/expr-lang/expr"
	"golang.org/x/time/rate"

	"github.com/calcstack/calcd/ports"
)

// Errors surfaced to the handler layer for status mapping.
var (
	ErrNotExpression    = errors.New("query is not a plain expression")
	ErrNotFinite        = errors.New("expression result is not finite")
	ErrGatewayRateLimit = errors.New("gateway rate limited")
	ErrGatewayPayment   = errors.New("gateway payment required")
	ErrGatewayBudget    = errors.New("local gateway budget exhausted")
)

// Config configures the solver.
type Config struct {
	GatewayURL string
	APIKey     string
	Model      string
	Timeout    time.Duration

	// Token bucket guarding the paid gateway: sustained requests per
	// second and burst size.
	GatewayRPS   float64
	GatewayBurst int
}

// Solver implements ports.Solver.
type Solver struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a solver. GatewayURL may be empty, in which case only
// local expression evaluation is available.
func New(cfg Config) *Solver {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.GatewayRPS == 0 {
		cfg.GatewayRPS = 1
	}
	if cfg.GatewayBurst == 0 {
		cfg.GatewayBurst = 3
	}
	return &Solver{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.GatewayRPS), cfg.GatewayBurst),
	}
}

// Solve answers a math query. Queries that compile as arithmetic
// expressions never leave the process.
func (s *Solver) Solve(ctx context.Context, query string) (ports.SolveResult, error) {
	if result, err := s.evalLocal(query); err == nil {
		return result, nil
	} else if errors.Is(err, ErrNotFinite) {
		// A real expression with an undefined result is a user error,
		// not a reason to burn a gateway call.
		return ports.SolveResult{}, err
	}

	return s.solveRemote(ctx, query)
}

// evalLocal compiles and runs the query as an arithmetic expression.
func (s *Solver) evalLocal(query string) (ports.SolveResult, error) {
	program, err := expr.Compile(query, expr.AllowUndefinedVariables())
	if err != nil {
		return ports.SolveResult{}, ErrNotExpression
	}

	out, err := expr.Run(program, map[string]any{
		"pi": math.Pi,
		"e":  math.E,
	})
	if err != nil {
		return ports.SolveResult{}, ErrNotExpression
	}

	var value float64
	switch v := out.(type) {
	case int:
		value = float64(v)
	case float64:
		value = v
	default:
		return ports.SolveResult{}, ErrNotExpression
	}

	if math.IsInf(value, 0) || math.IsNaN(value) {
		return ports.SolveResult{}, ErrNotFinite
	}

	answer := fmt.Sprintf("%g", value)
	return ports.SolveResult{
		Answer:      answer,
		Steps:       []string{fmt.Sprintf("%s = %s", query, answer)},
		Explanation: "Evaluated as an arithmetic expression.",
		Source:      "local",
	}, nil
}

// gatewayRequest is the LLM gateway chat payload.
type gatewayRequest struct {
	Model    string           `json:"model"`
	Messages []gatewayMessage `json:"messages"`
}

type gatewayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// gatewayResponse is the subset of the gateway reply we consume. The
// content is expected to be a JSON document with answer/steps/explanation.
type gatewayResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type solvedPayload struct {
	Answer      string   `json:"answer"`
	Steps       []string `json:"steps"`
	Explanation string   `json:"explanation"`
}

const systemPrompt = `You are a math assistant. Answer the user's question and respond with strict JSON: {"answer": string, "steps": [string], "explanation": string}. No prose outside the JSON.`

// solveRemote delegates the query to the LLM gateway.
func (s *Solver) solveRemote(ctx context.Context, query string) (ports.SolveResult, error) {
	if s.cfg.GatewayURL == "" {
		return ports.SolveResult{}, errors.New("no gateway configured")
	}

	// Local budget first: rejecting here is cheaper than a 429 round
	// trip against a paid upstream.
	if !s.limiter.Allow() {
		return ports.SolveResult{}, ErrGatewayBudget
	}

	body, err := json.Marshal(gatewayRequest{
		Model: s.cfg.Model,
		Messages: []gatewayMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
	})
	if err != nil {
		return ports.SolveResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return ports.SolveResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return ports.SolveResult{}, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ports.SolveResult{}, ErrGatewayRateLimit
	case resp.StatusCode == http.StatusPaymentRequired:
		return ports.SolveResult{}, ErrGatewayPayment
	case resp.StatusCode != http.StatusOK:
		return ports.SolveResult{}, fmt.Errorf("gateway status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ports.SolveResult{}, fmt.Errorf("gateway body: %w", err)
	}

	var gw gatewayResponse
	if err := json.Unmarshal(raw, &gw); err != nil {
		return ports.SolveResult{}, fmt.Errorf("gateway decode: %w", err)
	}
	if len(gw.Choices) == 0 {
		return ports.SolveResult{}, errors.New("gateway returned no choices")
	}

	var solved solvedPayload
	if err := json.Unmarshal([]byte(gw.Choices[0].Message.Content), &solved); err != nil {
		// Model ignored the JSON instruction; surface the raw text as
		// the answer rather than failing the request.
		return ports.SolveResult{
			Answer: gw.Choices[0].Message.Content,
			Source: "gateway",
		}, nil
	}

	return ports.SolveResult{
		Answer:      solved.Answer,
		Steps:       solved.Steps,
		Explanation: solved.Explanation,
		Source:      "gateway",
	}, nil
}

// Ensure interface compliance.
var _ ports.Solver = (*Solver)(nil)
