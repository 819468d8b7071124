package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stopRecorder keeps the order dependencies were stopped in.
type stopRecorder struct {
	mu    sync.Mutex
	order []string
}

func (r *stopRecorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

type fakeDep struct {
	name     string
	startErr error
	stopErr  error
	stopWait time.Duration
	recorder *stopRecorder
}

func (d *fakeDep) Start() error { return d.startErr }

func (d *fakeDep) Stop() error {
	if d.stopWait > 0 {
		time.Sleep(d.stopWait)
	}
	if d.recorder != nil {
		d.recorder.record(d.name)
	}
	return d.stopErr
}

func (d *fakeDep) Name() string { return d.name }

func TestCreateApp(t *testing.T) {
	t.Parallel()

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		got, err := CreateApp(&Config{})
		require.Error(t, err)
		require.Nil(t, got)
	})

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		got, err := CreateApp(&Config{ServiceName: "test", StopTimeout: time.Second})
		require.NoError(t, err)
		require.NotNil(t, got)
	})
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	t.Run("dependency failure stops everything in reverse order", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)

		recorder := &stopRecorder{}
		first := &fakeDep{name: "first", recorder: recorder}
		second := &fakeDep{name: "second", recorder: recorder, startErr: errors.New("boom")}

		app, err := CreateApp(&Config{ServiceName: "test", StopTimeout: 2 * time.Second},
			first, second)
		req.NoError(err)

		req.NoError(app.Run(context.Background()))
		req.True(app.stopCalled.Load())
		req.Equal([]string{"second", "first"}, recorder.order)
	})

	t.Run("context cancellation stops the app", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)

		dep := &fakeDep{name: "dep"}
		app, err := CreateApp(&Config{ServiceName: "test", StopTimeout: 2 * time.Second}, dep)
		req.NoError(err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req.NoError(app.Run(ctx))
	})

	t.Run("second run refused", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)

		app, err := CreateApp(&Config{ServiceName: "test", StopTimeout: time.Second})
		req.NoError(err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req.NoError(app.Run(ctx))
		req.Error(app.Run(ctx))
	})

	t.Run("stop failures reach the caller", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)

		stopErr := errors.New("flush failed")
		good := &fakeDep{name: "good"}
		bad := &fakeDep{name: "bad", stopErr: stopErr}
		app, err := CreateApp(&Config{ServiceName: "test", StopTimeout: 2 * time.Second},
			good, bad)
		req.NoError(err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = app.Run(ctx)
		req.Error(err)
		req.Contains(err.Error(), "bad")
	})

	t.Run("slow stop hits the timeout", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)

		dep := &fakeDep{name: "slow", stopWait: 500 * time.Millisecond}
		app, err := CreateApp(&Config{ServiceName: "test", StopTimeout: 50 * time.Millisecond}, dep)
		req.NoError(err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req.ErrorIs(app.Run(ctx), context.DeadlineExceeded)
	})
}
