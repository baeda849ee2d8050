// Package audit provides usage record types for the append-only audit
// log. All functions are pure - no side effects.
package audit

import "time"

// Record represents one completed request (immutable value type).
// Written exactly once per request that reached a calculation, after the
// result is known. Validation rejections are never recorded.
type Record struct {
	ID           string
	APIName      string // calculator name, e.g. "bmi"
	Endpoint     string // request path
	RequestData  []byte // submitted input, as JSON
	ResponseData []byte // structured output or error summary, as JSON
	StatusCode   int
	LatencyMs    int64
	IPAddress    string
	APIKeyHash   string // empty when the request carried no key
	Timestamp    time.Time
}

// IsError reports whether the recorded request ended in an error status.
func (r Record) IsError() bool {
	return r.StatusCode >= 400
}

// New creates a usage record.
func New(id, apiName, endpoint string, requestData, responseData []byte, statusCode int, latencyMs int64, ip, apiKeyHash string, at time.Time) Record {
	return Record{
		ID:           id,
		APIName:      apiName,
		Endpoint:     endpoint,
		RequestData:  requestData,
		ResponseData: responseData,
		StatusCode:   statusCode,
		LatencyMs:    latencyMs,
		IPAddress:    ip,
		APIKeyHash:   apiKeyHash,
		Timestamp:    at,
	}
}

// EndpointSummary aggregates usage for one calculator over a period
// (value type).
type EndpointSummary struct {
	APIName      string
	RequestCount int64
	ErrorCount   int64
	AvgLatencyMs int64
}

// ClientSummary aggregates usage for one source IP over a period
// (value type).
type ClientSummary struct {
	IPAddress    string
	RequestCount int64
}

// Summary is the admin analytics aggregate (value type).
type Summary struct {
	PeriodStart   time.Time
	PeriodEnd     time.Time
	TotalRequests int64
	TotalErrors   int64
	Endpoints     []EndpointSummary
	TopClients    []ClientSummary
}
