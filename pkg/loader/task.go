package loader

import (
	"context"
	"sync"
)

// Task is a single feed load in progress
type Task struct {
	index  int
	done   chan struct{}
	once   sync.Once
	cancel context.CancelFunc
	result Result
}

func newTask(index int, cancel context.CancelFunc) *Task {
	return &Task{
		index:  index,
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Index returns the registry index being loaded
func (t *Task) Index() int {
	return t.index
}

// Done is closed once the load has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result blocks until the load has finished and returns its outcome
func (t *Task) Result() Result {
	<-t.done
	return t.result
}

// Wait blocks until the load finishes or ctx is done. It returns the
// load's error, or ctx's error if ctx ended first.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, t.result.Err
	case <-ctx.Done():
		return Result{Index: t.index}, ctx.Err()
	}
}

// Cancel aborts the load. A canceled load does not update the page.
func (t *Task) Cancel() {
	t.cancel()
}

func (t *Task) finish(r Result) {
	t.once.Do(func() {
		t.result = r
		close(t.done)
	})
}
