// Package control provides the single control goroutine that owns all
// shared selection and engine state. Hardware callbacks and UI requests are
// marshaled onto it; ops run to completion, in order, before the next is
// dispatched.
package control

import (
	"context"
	"errors"
	"sync"
)

// Op is one unit of work on the control goroutine. It should be quick; its
// context is canceled on shutdown.
type Op func(ctx context.Context)

// Loop serializes ops onto one goroutine.
type Loop struct {
	mu      sync.Mutex
	ch      chan Op
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewLoop creates a loop with the given op buffer.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 32
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{ch: make(chan Op, buffer), ctx: ctx, cancel: cancel}
}

// Start launches the control goroutine. Safe to call more than once.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			select {
			case <-l.ctx.Done():
				return
			case op := <-l.ch:
				if op != nil {
					op(l.ctx)
				}
			}
		}
	}()
}

// Enqueue submits an op without waiting for it to run.
func (l *Loop) Enqueue(op Op) error {
	if l == nil || l.ch == nil {
		return errors.New("control loop not initialized")
	}
	select {
	case l.ch <- op:
		return nil
	case <-l.ctx.Done():
		return errors.New("control loop closed")
	}
}

// Do submits an op and blocks until it has run to completion. Returns an
// error only when the loop is shut down before the op finishes.
func (l *Loop) Do(op Op) error {
	done := make(chan struct{})
	err := l.Enqueue(func(ctx context.Context) {
		defer close(done)
		op(ctx)
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-l.ctx.Done():
		return errors.New("control loop closed")
	}
}

// Close stops the goroutine and waits for the in-flight op to finish.
// Queued ops that have not started are dropped.
func (l *Loop) Close() {
	if l == nil {
		return
	}
	l.cancel()
	l.wg.Wait()
}
