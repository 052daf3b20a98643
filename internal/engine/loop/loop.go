// Package loop implements a single-threaded continuation queue.
//
// Continuations may be posted from any goroutine but always run one at a time
// on the goroutine that called Run, in the order they were posted. Each
// continuation is one turn of the loop.
package loop

import (
	"context"
	"sync"
)

// Loop is a FIFO of pending continuations.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

// New creates an empty Loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post schedules fn to run on a later turn. It never runs fn synchronously.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of continuations waiting to run.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	fn := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return fn, true
}

// Run executes continuations on the calling goroutine. It returns nil once no
// continuation is pending and settled reports true, or ctx.Err() when ctx is done.
// Continuations still queued at that point run on the next call to Run.
func (l *Loop) Run(ctx context.Context, settled func() bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if fn, ok := l.pop(); ok {
			fn()
			continue
		}
		if settled() {
			return nil
		}
		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
