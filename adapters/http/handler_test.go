package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/calcstack/calcd/adapters/clock"
	calchttp "github.com/calcstack/calcd/adapters/http"
	"github.com/calcstack/calcd/adapters/idgen"
	"github.com/calcstack/calcd/adapters/memory"
	"github.com/calcstack/calcd/adapters/random"
	"github.com/calcstack/calcd/app"
	"github.com/calcstack/calcd/domain/audit"
	"github.com/calcstack/calcd/domain/ratelimit"
)

type dropRecorder struct{}

func (dropRecorder) Record(audit.Record) {}

func newTestRouter(t *testing.T, limits map[string]ratelimit.Config, admin http.Handler) http.Handler {
	t.Helper()

	svc := app.NewCalcService(app.Deps{
		RateLimit: memory.NewRateLimitStore(),
		Audit:     dropRecorder{},
		Clock:     clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		Random:    random.Real{},
		IDGen:     idgen.NewSequential("req"),
		Logger:    zerolog.Nop(),
	}, app.DynamicConfig{}, app.DefaultEndpoints(limits))

	handler := calchttp.NewCalcHandler(svc, zerolog.Nop())
	health := calchttp.NewHealthHandler(nil)
	return calchttp.NewRouter(handler, health, zerolog.Nop(), calchttp.RouterConfig{AdminHandler: admin})
}

func TestCalcEndpointPost(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest("POST", "/api/bmi", strings.NewReader(`{"weight":70,"height":175}`))
	req.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"bmi":22.9`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS allow-origin header")
	}
}

func TestCalcEndpointPreflight(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest("OPTIONS", "/api/loan", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 204 {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS allow-origin header")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("preflight body = %s, want empty", rec.Body.String())
	}
}

func TestCalcEndpointMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest("GET", "/api/bmi", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 405 {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, "POST") {
		t.Errorf("Allow = %q", allow)
	}
}

func TestCalcEndpointMalformedJSON(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest("POST", "/api/bmi", strings.NewReader(`{"weight":`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid JSON body") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCalcEndpointUnknownCalculator(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest("POST", "/api/sqrt", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 404 {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRateLimitHeadersExposed(t *testing.T) {
	limits := map[string]ratelimit.Config{
		"convert": {Limit: 2, Window: time.Minute},
	}
	router := newTestRouter(t, limits, nil)

	body := `{"value":1,"from":"meter","to":"foot","category":"length"}`
	var rec *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/convert", strings.NewReader(body))
		req.RemoteAddr = "203.0.113.7:51234"
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
	}

	if rec.Code != 429 {
		t.Fatalf("third request: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "2" {
		t.Errorf("X-RateLimit-Limit = %q", rec.Header().Get("X-RateLimit-Limit"))
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
}

func TestOversizedBodyRejected(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest("POST", "/api/bmi", strings.NewReader(`{"pad":"`+strings.Repeat("x", 70*1024)+`"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestVersion(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest("GET", "/version", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"service":"calcd"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
