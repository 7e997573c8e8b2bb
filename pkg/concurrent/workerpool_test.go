// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_Run(t *testing.T) {
	ctx := context.Background()
	pool := NewWorkerPool(2)

	var counter int64
	functions := []func() error{
		func() error {
			atomic.AddInt64(&counter, 1)
			time.Sleep(10 * time.Millisecond)
			return nil
		},
		func() error {
			atomic.AddInt64(&counter, 2)
			time.Sleep(10 * time.Millisecond)
			return nil
		},
		func() error {
			atomic.AddInt64(&counter, 3)
			time.Sleep(10 * time.Millisecond)
			return nil
		},
	}

	err := pool.Run(ctx, functions...)
	require.NoError(t, err)
	assert.Equal(t, int64(6), atomic.LoadInt64(&counter))
}

func TestWorkerPool_Run_ReturnsFirstError(t *testing.T) {
	ctx := context.Background()
	pool := NewWorkerPool(1)

	expectedError := errors.New("job failed")
	err := pool.Run(ctx,
		func() error { return expectedError },
		func() error { return nil },
	)
	assert.ErrorIs(t, err, expectedError)
}

func TestWorkerPool_Run_NoFunctions(t *testing.T) {
	pool := NewWorkerPool(2)
	assert.NoError(t, pool.Run(context.Background()))
}

func TestWorkerPool_RunAll_CollectsAllErrors(t *testing.T) {
	ctx := context.Background()
	pool := NewWorkerPool(2)

	var completed int64
	errs := pool.RunAll(ctx,
		func() error { return errors.New("first failure") },
		func() error {
			atomic.AddInt64(&completed, 1)
			return nil
		},
		func() error { return errors.New("second failure") },
		func() error {
			atomic.AddInt64(&completed, 1)
			return nil
		},
	)

	// Failures never cancel the remaining work.
	assert.Len(t, errs, 2)
	assert.Equal(t, int64(2), atomic.LoadInt64(&completed))
}

func TestWorkerPool_RunAll_NoErrors(t *testing.T) {
	pool := NewWorkerPool(3)

	errs := pool.RunAll(context.Background(),
		func() error { return nil },
		func() error { return nil },
	)
	assert.Empty(t, errs)
}

func TestWorkerPool_RunAll_CancelledContext(t *testing.T) {
	pool := NewWorkerPool(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := pool.RunAll(ctx, func() error {
		t.Error("function should not run after cancellation")
		return nil
	})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestNewWorkerPool_MinimumOneWorker(t *testing.T) {
	pool := NewWorkerPool(0)
	assert.Equal(t, 1, pool.workerCount)

	pool = NewWorkerPool(-5)
	assert.Equal(t, 1, pool.workerCount)
}
