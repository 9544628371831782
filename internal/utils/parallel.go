package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelTask is one independent unit of work run by RunParallelTasks.
type ParallelTask func(ctx context.Context) error

// RunParallelTasks runs every task concurrently and waits for all of them.
// The first error cancels the context handed to the remaining tasks and is
// returned once they have finished.
func RunParallelTasks(ctx context.Context, tasks ...ParallelTask) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			return task(ctx)
		})
	}
	return g.Wait()
}
