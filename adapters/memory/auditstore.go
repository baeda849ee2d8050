package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/calcstack/calcd/domain/audit"
	"github.com/calcstack/calcd/ports"
)

// AuditStore is an in-memory implementation of ports.AuditStore.
type AuditStore struct {
	mu      sync.RWMutex
	records []audit.Record
}

// NewAuditStore creates a new in-memory audit store.
func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

// RecordBatch appends usage records.
func (s *AuditStore) RecordBatch(ctx context.Context, records []audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

// Records returns a copy of all stored records (for testing).
func (s *AuditStore) Records() []audit.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Summary aggregates usage between start and end.
func (s *AuditStore) Summary(ctx context.Context, start, end time.Time) (audit.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type endpointAgg struct {
		count, errors, latencySum int64
	}
	endpoints := make(map[string]*endpointAgg)
	clients := make(map[string]int64)

	summary := audit.Summary{PeriodStart: start, PeriodEnd: end}
	for _, r := range s.records {
		if r.Timestamp.Before(start) || !r.Timestamp.Before(end) {
			continue
		}
		summary.TotalRequests++
		if r.IsError() {
			summary.TotalErrors++
		}
		agg := endpoints[r.APIName]
		if agg == nil {
			agg = &endpointAgg{}
			endpoints[r.APIName] = agg
		}
		agg.count++
		agg.latencySum += r.LatencyMs
		if r.IsError() {
			agg.errors++
		}
		clients[r.IPAddress]++
	}

	for name, agg := range endpoints {
		summary.Endpoints = append(summary.Endpoints, audit.EndpointSummary{
			APIName:      name,
			RequestCount: agg.count,
			ErrorCount:   agg.errors,
			AvgLatencyMs: agg.latencySum / agg.count,
		})
	}
	sort.Slice(summary.Endpoints, func(i, j int) bool {
		return summary.Endpoints[i].RequestCount > summary.Endpoints[j].RequestCount
	})

	for ip, count := range clients {
		summary.TopClients = append(summary.TopClients, audit.ClientSummary{
			IPAddress:    ip,
			RequestCount: count,
		})
	}
	sort.Slice(summary.TopClients, func(i, j int) bool {
		if summary.TopClients[i].RequestCount != summary.TopClients[j].RequestCount {
			return summary.TopClients[i].RequestCount > summary.TopClients[j].RequestCount
		}
		return summary.TopClients[i].IPAddress < summary.TopClients[j].IPAddress
	})
	if len(summary.TopClients) > 10 {
		summary.TopClients = summary.TopClients[:10]
	}

	return summary, nil
}

// Ensure interface compliance.
var _ ports.AuditStore = (*AuditStore)(nil)
