package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/critter/internal/scheduler"
)

func TestNewTickManager_PanicsOnZeroInterval(t *testing.T) {
	assert.Panics(t, func() { scheduler.NewTickManager(0, nil) })
}

func TestTickManager_TickCallbackInvoked(t *testing.T) {
	tm := scheduler.NewTickManager(20*time.Millisecond, zaptest.NewLogger(t))
	called := make(chan struct{}, 1)
	tm.RegisterTick("decay", func(context.Context) error {
		select {
		case called <- struct{}{}:
		default:
		}
		return nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	tm.Start(ctx)
	select {
	case <-called:
	case <-ctx.Done():
		t.Fatal("tick callback not invoked within timeout")
	}
}

func TestTickManager_RunOnceOrderAndErrors(t *testing.T) {
	tm := scheduler.NewTickManager(time.Hour, zaptest.NewLogger(t))
	var order []string
	tm.RegisterTick("b", func(context.Context) error { order = append(order, "b"); return errors.New("nope") })
	tm.RegisterTick("a", func(context.Context) error { order = append(order, "a"); return nil })
	tm.RegisterTick("c", func(context.Context) error { order = append(order, "c"); return nil })

	err := tm.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick b")
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestTickManager_UnregisterStopsCallback(t *testing.T) {
	tm := scheduler.NewTickManager(time.Hour, nil)
	var count atomic.Int64
	tm.RegisterTick("z1", func(context.Context) error { count.Add(1); return nil })

	require.NoError(t, tm.RunOnce(context.Background()))
	tm.Unregister("z1")
	require.NoError(t, tm.RunOnce(context.Background()))
	assert.Equal(t, int64(1), count.Load())
}

func TestTickManager_ServiceStopsOnStop(t *testing.T) {
	tm := scheduler.NewTickManager(10*time.Millisecond, zaptest.NewLogger(t))
	var count atomic.Int64
	tm.RegisterTick("count", func(context.Context) error { count.Add(1); return nil })

	svc := tm.Service()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, svc.Start())
	}()

	require.Eventually(t, func() bool { return count.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	svc.Stop()
	wg.Wait()
}
