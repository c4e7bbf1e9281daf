package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockSweeper struct {
	sweepFn func(ctx context.Context) int
}

func (m *mockSweeper) Sweep(ctx context.Context) int { return m.sweepFn(ctx) }

type mockDeleter struct {
	deleteExpiredFn func(ctx context.Context, now int64) (int64, error)
}

func (m *mockDeleter) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	return m.deleteExpiredFn(ctx, now)
}

type mockMetrics struct {
	swept  int
	purged int64
}

func (m *mockMetrics) RecordConnectionsSwept(count int)  { m.swept += count }
func (m *mockMetrics) RecordSessionsPurged(count int64) { m.purged += count }

func TestConnectionCleaner_RecordsSweptConnections(t *testing.T) {
	metrics := &mockMetrics{}
	cleaner := NewConnectionCleaner(&mockSweeper{sweepFn: func(context.Context) int { return 3 }}, metrics)

	cleaner.cleanup(context.Background())

	if metrics.swept != 3 {
		t.Errorf("swept = %d, want 3", metrics.swept)
	}
}

func TestConnectionCleaner_StopsOnContextCancel(t *testing.T) {
	cleaner := NewConnectionCleaner(&mockSweeper{sweepFn: func(context.Context) int { return 0 }}, nil)
	cleaner.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cleaner.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}

func TestSessionCleaner_PassesCurrentTime(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	var gotNow int64

	metrics := &mockMetrics{}
	cleaner := NewSessionCleaner(&mockDeleter{deleteExpiredFn: func(_ context.Context, now int64) (int64, error) {
		gotNow = now
		return 2, nil
	}}, metrics)
	cleaner.now = func() time.Time { return fixed }

	cleaner.cleanup(context.Background())

	if gotNow != fixed.UnixMilli() {
		t.Errorf("now = %d, want %d", gotNow, fixed.UnixMilli())
	}
	if metrics.purged != 2 {
		t.Errorf("purged = %d, want 2", metrics.purged)
	}
}

func TestSessionCleaner_ErrorRecordsNothing(t *testing.T) {
	metrics := &mockMetrics{}
	cleaner := NewSessionCleaner(&mockDeleter{deleteExpiredFn: func(context.Context, int64) (int64, error) {
		return 0, errors.New("disk full")
	}}, metrics)

	cleaner.cleanup(context.Background())

	if metrics.purged != 0 {
		t.Errorf("purged = %d, want 0", metrics.purged)
	}
}
