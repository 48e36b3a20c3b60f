// Package worker builds independent field layers in parallel.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
)

// Builder produces one named layer.
// This matches the signature of pipeline.layerBuilder.Build.
type Builder interface {
	Build(ctx context.Context, layer string) (*field.Scalar, error)
}

// Task represents a single layer build.
type Task struct {
	Layer string
}

// Result represents the outcome of a layer build.
type Result struct {
	Field   *field.Scalar
	Err     error
	Task    Task
	Elapsed time.Duration
}

// ProgressFunc is called after each task completes.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Builder    Builder
	OnProgress ProgressFunc
	Workers    int
}

// Pool manages parallel layer builds.
type Pool struct {
	builder    Builder
	onProgress ProgressFunc
	workers    int
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		builder:    cfg.Builder,
		onProgress: cfg.OnProgress,
	}
}

type indexedResult struct {
	result Result
	index  int
}

// Run executes all tasks and returns one result per task, in task order,
// regardless of which worker finished first.
// The function blocks until all tasks complete or the context is cancelled.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	taskCh := make(chan int, len(tasks))
	resultCh := make(chan indexedResult, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, tasks, taskCh, resultCh)
		}()
	}

	for i := range tasks {
		taskCh <- i
	}
	close(taskCh)

	results := make([]Result, len(tasks))
	done := make(chan struct{})

	go func() {
		completed, failed := 0, 0
		for r := range resultCh {
			results[r.index] = r.result

			completed++
			if r.result.Err != nil {
				failed++
			}
			if p.onProgress != nil {
				p.onProgress(completed, len(tasks), failed)
			}
		}
		close(done)
	}()

	wg.Wait()
	close(resultCh)
	<-done

	return results
}

// worker builds tasks by index and sends results to the result channel.
func (p *Pool) worker(ctx context.Context, tasks []Task, indices <-chan int, results chan<- indexedResult) {
	for i := range indices {
		task := tasks[i]
		select {
		case <-ctx.Done():
			results <- indexedResult{index: i, result: Result{Task: task, Err: ctx.Err()}}
			continue
		default:
		}

		start := time.Now()
		f, err := p.builder.Build(ctx, task.Layer)
		results <- indexedResult{
			index: i,
			result: Result{
				Task:    task,
				Field:   f,
				Err:     err,
				Elapsed: time.Since(start),
			},
		}
	}
}
