package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wireway/factory/engine"
	"github.com/wireway/factory/scheduler"
	"github.com/wireway/factory/types"
)

func newEmptyFactory(t *testing.T) *engine.Factory {
	t.Helper()
	f, err := engine.NewFactory(nil, nil, types.NewConfig())
	require.NoError(t, err)
	return f
}

func TestStartPerformsAnInitialBuildSynchronously(t *testing.T) {
	var calls int32
	r := scheduler.New("@every 1h", func(ctx context.Context) (*engine.Factory, error) {
		atomic.AddInt32(&calls, 1)
		return newEmptyFactory(t), nil
	}, nil)

	require.NoError(t, r.Start())
	defer r.Close()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.NotNil(t, r.Current())
}

func TestStartFailsIfTheInitialBuildFails(t *testing.T) {
	boom := errors.New("boom")
	r := scheduler.New("@every 1h", func(ctx context.Context) (*engine.Factory, error) {
		return nil, boom
	}, nil)

	err := r.Start()
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, r.Current())
}

func TestCurrentReturnsNilBeforeStart(t *testing.T) {
	r := scheduler.New("@every 1h", func(ctx context.Context) (*engine.Factory, error) {
		return newEmptyFactory(t), nil
	}, nil)
	assert.Nil(t, r.Current())
}

func TestRebuildsOnTheConfiguredSchedule(t *testing.T) {
	var calls int32
	r := scheduler.New("@every 50ms", func(ctx context.Context) (*engine.Factory, error) {
		atomic.AddInt32(&calls, 1)
		return newEmptyFactory(t), nil
	}, nil)

	require.NoError(t, r.Start())
	defer r.Close()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 2
	}, time.Second, 10*time.Millisecond)
}
