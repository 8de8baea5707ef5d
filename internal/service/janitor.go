package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// JanitorConfig holds configuration for the session janitor.
type JanitorConfig struct {
	// IdleTimeout is how long a session may go unused before eviction.
	// Default: 30 minutes
	IdleTimeout time.Duration

	// SweepInterval is how often the janitor runs.
	// Default: 5 minutes
	SweepInterval time.Duration
}

// Janitor periodically evicts idle sessions from a Registry.
type Janitor struct {
	registry  *Registry
	config    JanitorConfig
	ticker    *time.Ticker
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  sync.Once
	isRunning bool
	mu        sync.Mutex
	logger    *zap.Logger
}

// NewJanitor creates a janitor; zero config fields take their defaults.
func NewJanitor(registry *Registry, config JanitorConfig, logger *zap.Logger) *Janitor {
	if config.IdleTimeout == 0 {
		config.IdleTimeout = 30 * time.Minute
	}
	if config.SweepInterval == 0 {
		config.SweepInterval = 5 * time.Minute
	}

	return &Janitor{
		registry: registry,
		config:   config,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		logger:   logger.Named("janitor"),
	}
}

// Start begins sweeping in the background. Calling Start twice is a no-op.
func (j *Janitor) Start() {
	j.mu.Lock()
	if j.isRunning {
		j.mu.Unlock()
		return
	}
	j.isRunning = true
	j.ticker = time.NewTicker(j.config.SweepInterval)
	j.mu.Unlock()

	j.logger.Info("started",
		zap.Duration("interval", j.config.SweepInterval),
		zap.Duration("idle_timeout", j.config.IdleTimeout))

	go j.run()
}

func (j *Janitor) run() {
	defer close(j.doneCh)
	for {
		select {
		case <-j.ticker.C:
			j.RunNow()
		case <-j.stopCh:
			j.logger.Info("stopped")
			return
		}
	}
}

// RunNow performs one sweep and returns the number of evicted sessions.
func (j *Janitor) RunNow() int {
	evicted := j.registry.EvictIdle(j.config.IdleTimeout)
	if evicted > 0 {
		j.logger.Info("evicted idle sessions", zap.Int("count", evicted))
	}
	return evicted
}

// Stop halts the janitor and waits for its goroutine to exit.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		j.mu.Lock()
		running := j.isRunning
		if j.ticker != nil {
			j.ticker.Stop()
		}
		close(j.stopCh)
		j.isRunning = false
		j.mu.Unlock()

		if running {
			<-j.doneCh
		}
	})
}
