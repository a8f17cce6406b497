package service

import (
	"context"
	"sync"
	"time"

	"github.com/seolytics/seo-api/internal/domain/usage"
	"github.com/seolytics/seo-api/internal/metrics"
	"go.uber.org/zap"
)

// UsageRecorder persists one usage log row per completed request without
// touching the request path: Record never blocks and never returns an error.
// Under backpressure records are dropped, and every drop is counted.
type UsageRecorder struct {
	repo   usage.Repository
	logger *zap.Logger

	records chan *usage.Record
	done    chan struct{}
	once    sync.Once
}

func NewUsageRecorder(repo usage.Repository, bufferSize int, logger *zap.Logger) *UsageRecorder {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	r := &UsageRecorder{
		repo:    repo,
		logger:  logger.Named("UsageRecorder"),
		records: make(chan *usage.Record, bufferSize),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Record enqueues a usage row, dropping it if the buffer is full.
func (r *UsageRecorder) Record(rec *usage.Record) {
	select {
	case r.records <- rec:
	default:
		metrics.UsageRecordsDropped.Inc()
		r.logger.Warn("Usage record dropped, recorder buffer full",
			zap.String("endpoint", rec.Endpoint),
			zap.String("client_id", rec.ClientID.String()),
		)
	}
}

func (r *UsageRecorder) run() {
	defer close(r.done)
	for rec := range r.records {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.repo.Insert(ctx, rec); err != nil {
			metrics.UsageRecordFailures.Inc()
			r.logger.Error("Failed to persist usage record",
				zap.String("endpoint", rec.Endpoint),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Close drains buffered records and waits for the worker to finish.
func (r *UsageRecorder) Close() {
	r.once.Do(func() {
		close(r.records)
	})
	<-r.done
}
