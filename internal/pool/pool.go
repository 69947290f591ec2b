// Package pool provides a bounded worker pool for independent enrichment
// tasks. Workers never touch shared catalog state; they return result values
// and the calling goroutine folds them back in after the join, so the
// catalog needs no locking.
package pool

import (
	"context"
	"fmt"
)

// DefaultWidth is the worker pool size used when the caller does not
// configure one.
const DefaultWidth = 10

// Result pairs a task with its outcome. Exactly one Result is produced per
// submitted task; arrival order carries no meaning, callers address results
// through the embedded task.
type Result[T, R any] struct {
	Task  T
	Value R
	Err   error
}

// Map runs fn over every task using at most width concurrent workers and
// returns one Result per task, in no particular order. A failing or
// panicking task surfaces as a Result with Err set and never disturbs its
// siblings. A cancelled context stops submission of not-yet-started tasks;
// those surface with the context's error.
func Map[T, R any](ctx context.Context, tasks []T, width int, fn func(context.Context, T) (R, error)) []Result[T, R] {
	if width <= 0 {
		width = DefaultWidth
	}
	if width > len(tasks) {
		width = len(tasks)
	}

	taskCh := make(chan T)
	resultCh := make(chan Result[T, R], len(tasks))

	for i := 0; i < width; i++ {
		go func() {
			for task := range taskCh {
				resultCh <- runOne(ctx, task, fn)
			}
		}()
	}

	submitted := 0
	results := make([]Result[T, R], 0, len(tasks))

submit:
	for _, task := range tasks {
		select {
		case taskCh <- task:
			submitted++
		case <-ctx.Done():
			break submit
		}
	}
	close(taskCh)

	for i := 0; i < submitted; i++ {
		results = append(results, <-resultCh)
	}

	// Tasks that were never submitted still get a result, keyed by task.
	for _, task := range tasks[submitted:] {
		var zero R
		results = append(results, Result[T, R]{Task: task, Value: zero, Err: ctx.Err()})
	}

	return results
}

func runOne[T, R any](ctx context.Context, task T, fn func(context.Context, T) (R, error)) (res Result[T, R]) {
	res.Task = task
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("task panicked: %v", p)
		}
	}()
	res.Value, res.Err = fn(ctx, task)
	return res
}
