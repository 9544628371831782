package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParallelTasksRunsAll(t *testing.T) {
	var ran atomic.Int32
	task := func(ctx context.Context) error {
		ran.Add(1)
		return nil
	}

	require.NoError(t, RunParallelTasks(context.Background(), task, task, task))
	assert.Equal(t, int32(3), ran.Load())
}

func TestRunParallelTasksNoTasks(t *testing.T) {
	assert.NoError(t, RunParallelTasks(context.Background()))
}

func TestRunParallelTasksCancelsOnError(t *testing.T) {
	boom := errors.New("boom")

	err := RunParallelTasks(context.Background(),
		func(ctx context.Context) error {
			return boom
		},
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return errors.New("not cancelled")
			}
		},
	)

	assert.ErrorIs(t, err, boom)
}
