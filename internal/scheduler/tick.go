// Package scheduler drives periodic simulation work such as time passage.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/critter/internal/server"
)

// TickFunc is one unit of periodic work.
type TickFunc func(ctx context.Context) error

// TickManager runs every registered callback once per interval, in name order.
//
// Invariant: a callback never overlaps with itself; a slow sweep delays the next one.
type TickManager struct {
	interval time.Duration
	logger   *zap.Logger
	mu       sync.Mutex
	ticks    map[string]TickFunc
}

// NewTickManager returns a manager that fires ticks every interval.
//
// Precondition: interval must be > 0. A nil logger disables logging.
func NewTickManager(interval time.Duration, logger *zap.Logger) *TickManager {
	if interval <= 0 {
		panic("scheduler.NewTickManager: interval must be > 0")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TickManager{
		interval: interval,
		logger:   logger,
		ticks:    make(map[string]TickFunc),
	}
}

// RegisterTick registers fn under name. Replaces any existing callback.
func (m *TickManager) RegisterTick(name string, fn TickFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks[name] = fn
}

// Unregister removes the callback registered under name.
func (m *TickManager) Unregister(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ticks, name)
}

// RunOnce invokes every registered callback once. A failing callback does not
// prevent the rest from running.
//
// Postcondition: Returns the joined errors of every failed callback, or nil.
func (m *TickManager) RunOnce(ctx context.Context) error {
	m.mu.Lock()
	callbacks := maps.Clone(m.ticks)
	m.mu.Unlock()

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(callbacks)) {
		start := time.Now()
		if err := callbacks[name](ctx); err != nil {
			m.logger.Warn("tick failed", zap.String("tick", name), zap.Error(err))
			errs = append(errs, fmt.Errorf("tick %s: %w", name, err))
			continue
		}
		m.logger.Debug("tick complete", zap.String("tick", name), zap.Duration("elapsed", time.Since(start)))
	}
	return errors.Join(errs...)
}

// Run fires RunOnce every interval and blocks until ctx is cancelled.
func (m *TickManager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = m.RunOnce(ctx)
		}
	}
}

// Start runs the tick loop in a new goroutine until ctx is cancelled.
func (m *TickManager) Start(ctx context.Context) {
	go m.Run(ctx)
}

// Service adapts the manager to a lifecycle service: Start blocks in Run and
// Stop cancels it.
func (m *TickManager) Service() server.Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &server.FuncService{
		StartFn: func() error {
			m.Run(ctx)
			return nil
		},
		StopFn: cancel,
	}
}
