// Package loop provides the single goroutine on which a playback controller lives.
// Native element callbacks, sentinel ticks and caller operations are all posted here and run
// to completion one at a time, in FIFO order.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed is returned by Call once the loop has stopped running.
var ErrClosed = errors.New("loop closed")

const defaultQueueSize = 64

// Loop is a FIFO of work items drained by Run.
type Loop struct {
	queue chan func()
	done  chan struct{}

	closeOnce sync.Once
}

// New creates a loop. Nothing runs until Run is called.
func New() *Loop {
	return &Loop{
		queue: make(chan func(), defaultQueueSize),
		done:  make(chan struct{}),
	}
}

// Run drains the queue until ctx is cancelled. It must be called exactly once.
func (l *Loop) Run(ctx context.Context) error {
	defer l.closeOnce.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post enqueues fn. It reports false when the loop has already stopped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case <-l.done:
		return false
	case l.queue <- fn:
		return true
	}
}

// Call runs fn on the loop and waits for its result.
// It must not be called from the loop goroutine itself.
func (l *Loop) Call(fn func() error) error {
	result := make(chan error, 1)
	if !l.Post(func() { result <- fn() }) {
		return ErrClosed
	}

	select {
	case err := <-result:
		return err
	case <-l.done:
		return ErrClosed
	}
}

// Every runs fn on the loop every interval until the returned cancel function is called.
// Cancel must be called from the loop goroutine; a tick already queued when cancel runs is dropped.
func (l *Loop) Every(interval time.Duration, fn func()) (cancel func()) {
	var stopped atomic.Bool
	stop := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				l.Post(func() {
					if !stopped.Load() {
						fn()
					}
				})
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stopped.Store(true)
			close(stop)
		})
	}
}
