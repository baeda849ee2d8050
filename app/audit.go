package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/calcstack/calcd/adapters/metrics"
	"github.com/calcstack/calcd/domain/audit"
	"github.com/calcstack/calcd/ports"
)

// BufferedAuditRecorder buffers usage records and writes them in batches
// to the store. Store failures are counted and logged, never surfaced to
// the request path.
type BufferedAuditRecorder struct {
	store         ports.AuditStore
	logger        zerolog.Logger
	metrics       *metrics.Collector
	buffer        []audit.Record
	mu            sync.Mutex
	batchSize     int
	flushInterval time.Duration
	stopCh        chan struct{}
	wg            sync.WaitGroup
	closeOnce     sync.Once
}

// NewBufferedAuditRecorder creates a buffered audit recorder and starts
// its flush loop.
func NewBufferedAuditRecorder(store ports.AuditStore, logger zerolog.Logger, m *metrics.Collector, batchSize int, flushInterval time.Duration) *BufferedAuditRecorder {
	if batchSize == 0 {
		batchSize = 100
	}
	if flushInterval == 0 {
		flushInterval = 5 * time.Second
	}

	r := &BufferedAuditRecorder{
		store:         store,
		logger:        logger,
		metrics:       m,
		buffer:        make([]audit.Record, 0, batchSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		stopCh:        make(chan struct{}),
	}

	r.wg.Add(1)
	go r.flushLoop()

	return r
}

// Record queues a usage record for the next batch write.
func (r *BufferedAuditRecorder) Record(rec audit.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, rec)
	if r.metrics != nil {
		r.metrics.AuditRecords.Inc()
	}

	if len(r.buffer) >= r.batchSize {
		r.flushLocked()
	}
}

// Flush forces immediate processing of queued records.
func (r *BufferedAuditRecorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	batch := r.takeLocked()
	r.mu.Unlock()
	return r.write(ctx, batch)
}

// takeLocked detaches the current buffer. Caller holds the mutex.
func (r *BufferedAuditRecorder) takeLocked() []audit.Record {
	if len(r.buffer) == 0 {
		return nil
	}
	batch := make([]audit.Record, len(r.buffer))
	copy(batch, r.buffer)
	r.buffer = r.buffer[:0]
	return batch
}

func (r *BufferedAuditRecorder) flushLocked() {
	batch := r.takeLocked()

	// Write in background to not block the request path
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		r.write(ctx, batch)
	}()
}

func (r *BufferedAuditRecorder) write(ctx context.Context, batch []audit.Record) error {
	if len(batch) == 0 {
		return nil
	}
	if err := r.store.RecordBatch(ctx, batch); err != nil {
		if r.metrics != nil {
			r.metrics.AuditDrops.Add(float64(len(batch)))
		}
		r.logger.Error().Err(err).Int("dropped", len(batch)).Msg("audit batch write failed")
		return err
	}
	return nil
}

func (r *BufferedAuditRecorder) flushLoop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Flush(context.Background())
		case <-r.stopCh:
			return
		}
	}
}

// Close stops the recorder and flushes remaining records.
func (r *BufferedAuditRecorder) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.stopCh)
		r.wg.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = r.Flush(ctx)
	})
	return err
}
