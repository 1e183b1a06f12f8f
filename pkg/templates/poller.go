package templates

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/entrhq/caselens/pkg/logging"
)

// Poller refreshes a Store from storage on a fixed interval. Changes made by
// another surface become visible within one interval.
type Poller struct {
	store    *Store
	interval time.Duration
	logger   *logging.Logger
	onChange func(Snapshot)

	mu      sync.Mutex
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithOnChange registers a callback invoked with the new snapshot after a
// refresh that changed the cached mapping.
func WithOnChange(fn func(Snapshot)) PollerOption {
	return func(p *Poller) {
		p.onChange = fn
	}
}

// NewPoller creates a poller for store with the given interval.
func NewPoller(store *Store, interval time.Duration, logger *logging.Logger, opts ...PollerOption) *Poller {
	if logger == nil {
		logger = logging.Discard("templates")
	}
	p := &Poller{store: store, interval: interval, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start schedules the refresh job. It returns an error if already running.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("template poller already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", p.interval), p.Tick); err != nil {
		return fmt.Errorf("failed to schedule template refresh: %w", err)
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.cron = c
	p.running = true
	c.Start()

	p.logger.Debugf("Template poller started, interval %s", p.interval)
	return nil
}

// Tick performs one refresh. It is the scheduled job and may be called
// directly.
func (p *Poller) Tick() {
	ctx := p.jobContext()

	changed, err := p.store.Refresh(ctx)
	if err != nil {
		p.logger.Warnf("Template refresh failed: %v", err)
		return
	}
	if !changed || p.onChange == nil {
		return
	}

	snapshot, err := p.store.Snapshot()
	if err != nil {
		p.logger.Warnf("Template snapshot failed: %v", err)
		return
	}
	p.onChange(snapshot)
}

// Stop unschedules the job and waits for a running refresh to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	c, cancel := p.cron, p.cancel
	p.running = false
	p.mu.Unlock()

	<-c.Stop().Done()
	cancel()
	p.logger.Debugf("Template poller stopped")
}

func (p *Poller) jobContext() context.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx == nil {
		return context.Background()
	}
	return p.ctx
}
