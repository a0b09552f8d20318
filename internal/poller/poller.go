// package poller refreshes the indexer status at a fixed cadence while
// the admin view is visible.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wissl-audio/trill/internal/api"
)

const defaultInterval = 2 * time.Second

// StatusSource is the slice of the API client the poller needs.
type StatusSource interface {
	IndexerStatus(ctx context.Context) (*api.IndexerStatus, error)
}

// Indexer polls the server's indexer status. At most one poll loop
// runs at a time; starting a new one cancels the previous.
type Indexer struct {
	logger   *log.Logger
	source   StatusSource
	interval time.Duration

	// OnStatus receives every successful status update.
	OnStatus func(status *api.IndexerStatus)
	// OnError receives poll failures. The loop keeps running.
	OnError func(err error)

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewIndexer creates a stopped Indexer.
func NewIndexer(logger *log.Logger, source StatusSource, interval time.Duration) *Indexer {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Indexer{logger: logger, source: source, interval: interval}
}

// Start launches the poll loop in a background goroutine and returns
// immediately. The loop ends when ctx is cancelled, Stop is called, or
// the indexer reports it is no longer running.
func (p *Indexer) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.mu.Unlock()

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			if done := p.refresh(ctx); done {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the running poll loop, if any.
func (p *Indexer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// refresh fetches one status update. It reports true when polling
// should end because the indexer has finished.
func (p *Indexer) refresh(ctx context.Context) bool {
	status, err := p.source.IndexerStatus(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		p.logger.Warn("indexer status poll failed", "err", err)
		if p.OnError != nil {
			p.OnError(err)
		}
		return false
	}
	if p.OnStatus != nil {
		p.OnStatus(status)
	}
	return !status.Running
}
