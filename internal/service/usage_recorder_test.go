package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/seolytics/seo-api/internal/domain/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsageRepo struct {
	mu       sync.Mutex
	inserted []*usage.Record

	insertErr error
	blockCh   chan struct{}
	started   chan struct{}
}

func (f *fakeUsageRepo) Insert(ctx context.Context, rec *usage.Record) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.blockCh != nil {
		<-f.blockCh
	}
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeUsageRepo) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*usage.Record, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUsageRepo) Summarize(ctx context.Context, clientID uuid.UUID) (*usage.Summary, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUsageRepo) insertedRecords() []*usage.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*usage.Record, len(f.inserted))
	copy(out, f.inserted)
	return out
}

func testRecord(endpoint string) *usage.Record {
	return &usage.Record{
		ClientID:       uuid.New(),
		APIKeyID:       uuid.New(),
		Endpoint:       endpoint,
		Method:         "GET",
		StatusCode:     200,
		ResponseTimeMS: 12,
	}
}

func TestUsageRecorder_PersistsRecords(t *testing.T) {
	repo := &fakeUsageRepo{}
	recorder := NewUsageRecorder(repo, 16, zap.NewNop())

	recorder.Record(testRecord("/api/v1/domains"))
	recorder.Record(testRecord("/api/v1/me"))
	recorder.Close()

	inserted := repo.insertedRecords()
	require.Len(t, inserted, 2)
	assert.Equal(t, "/api/v1/domains", inserted[0].Endpoint)
	assert.Equal(t, "/api/v1/me", inserted[1].Endpoint)
}

func TestUsageRecorder_DropsWhenBufferFull(t *testing.T) {
	repo := &fakeUsageRepo{
		blockCh: make(chan struct{}),
		started: make(chan struct{}, 3),
	}
	recorder := NewUsageRecorder(repo, 1, zap.NewNop())

	// First record occupies the worker inside Insert.
	recorder.Record(testRecord("/one"))
	select {
	case <-repo.started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up the first record")
	}

	// Second fills the single buffer slot; third has nowhere to go.
	recorder.Record(testRecord("/two"))
	recorder.Record(testRecord("/three"))

	close(repo.blockCh)
	recorder.Close()

	inserted := repo.insertedRecords()
	require.Len(t, inserted, 2)
	assert.Equal(t, "/one", inserted[0].Endpoint)
	assert.Equal(t, "/two", inserted[1].Endpoint)
}

func TestUsageRecorder_InsertFailureDoesNotStopWorker(t *testing.T) {
	repo := &fakeUsageRepo{insertErr: errors.New("insert failed")}
	recorder := NewUsageRecorder(repo, 16, zap.NewNop())

	recorder.Record(testRecord("/fails"))
	recorder.Close()

	// The worker drained the channel and exited cleanly despite the error.
	assert.Empty(t, repo.insertedRecords())
}

func TestUsageRecorder_CloseIsIdempotent(t *testing.T) {
	repo := &fakeUsageRepo{}
	recorder := NewUsageRecorder(repo, 4, zap.NewNop())

	recorder.Close()
	recorder.Close()
}
