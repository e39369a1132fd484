package worker_pool

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// TaskFunc is one unit of work. Tasks share nothing but the pool context.
type TaskFunc[T any] func(ctx context.Context) (T, error)

// TaskResult holds the outcome of a finished task (its ID, result value, or error).
type TaskResult[T any] struct {
	ID     string
	Result T
	Err    error
}

type Task[T any] struct {
	ID string
	Fn TaskFunc[T]
}

// WorkerPool runs tasks with at most numWorkers in flight.
type WorkerPool struct {
	numWorkers  int
	stopOnError bool
	log         *log.Logger
}

// NewWorkerPool initializes the worker pool with the given number of workers.
// If stopOnError is true, the pool cancels the remaining tasks on the first
// task error.
func NewWorkerPool(numWorkers int, stopOnError bool, logger *log.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool{
		numWorkers:  numWorkers,
		stopOnError: stopOnError,
		log:         logger,
	}
}

// Run executes tasks and returns their results in submission order. Tasks
// that never started because the pool was canceled carry the context error.
func Run[T any](ctx context.Context, wp *WorkerPool, tasks []Task[T]) []TaskResult[T] {
	results := make([]TaskResult[T], len(tasks))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(wp.numWorkers)

	for i, task := range tasks {
		results[i].ID = task.ID
		if err := ctx.Err(); err != nil {
			wp.log.Warnf(`Task %s rejected: pool was canceled`, task.ID)
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			wp.log.Debugf(`Task %s started`, task.ID)
			res, err := task.Fn(ctx)
			results[i].Result = res
			results[i].Err = err
			if err != nil {
				wp.log.Errorf(`Task %s failed: %v`, task.ID, err)
				if wp.stopOnError {
					wp.log.Warnf(`StopOnError active - canceling pool due to error in task %s`, task.ID)
					cancel()
				}
				return nil
			}
			wp.log.Debugf(`Task %s completed successfully`, task.ID)
			return nil
		})
	}

	g.Wait()
	return results
}
