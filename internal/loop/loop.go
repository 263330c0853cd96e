// Package loop provides the single event loop every engine state transition
// runs on. Timer callbacks, keyboard intents and pad messages arrive from
// different goroutines and are serialized here, so the engine needs no locks.
package loop

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/charmbracelet/log"
)

const defaultQueueSize = 256

// ErrStopped is returned by Run when the loop was stopped explicitly.
var ErrStopped = errors.New("loop: stopped")

// Loop runs posted functions one at a time on the goroutine calling Run.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
	logger   *log.Logger
}

// New creates a loop with the given queue size (0 uses the default).
func New(size int, logger *log.Logger) *Loop {
	if size <= 0 {
		size = defaultQueueSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{
		queue:  make(chan func(), size),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Post queues fn for execution on the loop. It blocks while the queue is
// full and returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Stop makes Run return ErrStopped after the function currently executing.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Done is closed once the loop is stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run executes posted functions until ctx is cancelled or Stop is called.
// A panicking function stops the loop and is reported as an error.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrStopped
		case fn := <-l.queue:
			if err := l.invoke(fn); err != nil {
				return err
			}
		}
	}
}

// Do posts fn and waits for it to finish. It must not be called from the
// loop goroutine itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) invoke(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop callback panicked", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("loop: callback panicked: %v", r)
		}
	}()
	fn()
	return nil
}
