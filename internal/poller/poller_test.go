package poller

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/wissl-audio/trill/internal/api"
	"github.com/wissl-audio/trill/internal/shared"
)

type fakeSource struct {
	mu       sync.Mutex
	statuses []*api.IndexerStatus
	err      error
	calls    int
}

func (s *fakeSource) IndexerStatus(ctx context.Context) (*api.IndexerStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	status := s.statuses[0]
	if len(s.statuses) > 1 {
		s.statuses = s.statuses[1:]
	}
	return status, nil
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestIndexerPolling(t *testing.T) {
	t.Run("delivers updates while running", func(t *testing.T) {
		source := &fakeSource{statuses: []*api.IndexerStatus{
			{Running: true, PercentDone: 50},
		}}
		p := NewIndexer(shared.NewLogger(io.Discard), source, 5*time.Millisecond)
		t.Cleanup(p.Stop)

		var mu sync.Mutex
		var got []*api.IndexerStatus
		p.OnStatus = func(status *api.IndexerStatus) {
			mu.Lock()
			got = append(got, status)
			mu.Unlock()
		}

		p.Start(context.Background())
		waitFor(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(got) >= 3
		})

		mu.Lock()
		defer mu.Unlock()
		if got[0].PercentDone != 50 {
			t.Errorf("unexpected status %+v", got[0])
		}
	})

	t.Run("stops when indexer finishes", func(t *testing.T) {
		source := &fakeSource{statuses: []*api.IndexerStatus{
			{Running: true},
			{Running: false},
		}}
		p := NewIndexer(shared.NewLogger(io.Discard), source, time.Millisecond)
		t.Cleanup(p.Stop)

		p.Start(context.Background())
		waitFor(t, func() bool { return source.callCount() >= 2 })
		time.Sleep(20 * time.Millisecond)

		if got := source.callCount(); got != 2 {
			t.Errorf("expected polling to stop after 2 calls, got %d", got)
		}
	})

	t.Run("cancelled on navigation away", func(t *testing.T) {
		source := &fakeSource{statuses: []*api.IndexerStatus{
			{Running: true},
		}}
		p := NewIndexer(shared.NewLogger(io.Discard), source, time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		p.Start(ctx)
		waitFor(t, func() bool { return source.callCount() >= 1 })
		cancel()
		time.Sleep(10 * time.Millisecond)

		before := source.callCount()
		time.Sleep(20 * time.Millisecond)
		if got := source.callCount(); got != before {
			t.Errorf("expected no polls after cancellation, got %d more", got-before)
		}
	})

	t.Run("keeps polling through errors", func(t *testing.T) {
		source := &fakeSource{err: errors.New("boom")}
		p := NewIndexer(shared.NewLogger(io.Discard), source, time.Millisecond)
		t.Cleanup(p.Stop)

		var mu sync.Mutex
		var errs int
		p.OnError = func(err error) {
			mu.Lock()
			errs++
			mu.Unlock()
		}

		p.Start(context.Background())
		waitFor(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return errs >= 2
		})
	})

	t.Run("restart cancels previous loop", func(t *testing.T) {
		source := &fakeSource{statuses: []*api.IndexerStatus{
			{Running: true},
		}}
		p := NewIndexer(shared.NewLogger(io.Discard), source, time.Millisecond)
		t.Cleanup(p.Stop)

		p.Start(context.Background())
		p.Start(context.Background())
		waitFor(t, func() bool { return source.callCount() >= 2 })

		p.Stop()
		time.Sleep(10 * time.Millisecond)
		before := source.callCount()
		time.Sleep(20 * time.Millisecond)
		if got := source.callCount(); got != before {
			t.Errorf("expected no polls after stop, got %d more", got-before)
		}
	})
}
