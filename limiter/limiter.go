// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package limiter bounds the number of concurrently running asynchronous
// operations. Work is admitted in FIFO order; submission never blocks the
// caller. Admission state (queue and running count) is guarded by a mutex
// rather than lock-free primitives: the critical section is a constant-time
// queue/counter update with no blocking calls inside, and a single lock keeps
// the FIFO guarantee and permit accounting trivially consistent.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidMaxConcurrent is returned when constructing a limiter with a
// non-positive concurrency bound
var ErrInvalidMaxConcurrent = errors.New("maxConcurrent must be positive")

// Limiter admits queued work items while fewer than maxConcurrent are
// running. The queue is unbounded.
type Limiter struct {
	mutex   sync.Mutex
	max     int
	running int
	queue   []func()
}

// New creates a Limiter with the given concurrency bound
func New(maxConcurrent int) (*Limiter, error) {
	if maxConcurrent <= 0 {
		return nil, ErrInvalidMaxConcurrent
	}
	return &Limiter{max: maxConcurrent}, nil
}

// enqueue adds a work item and attempts to drain the queue
func (l *Limiter) enqueue(run func()) {
	l.mutex.Lock()
	l.queue = append(l.queue, run)
	l.drain()
	l.mutex.Unlock()
}

// release returns a permit and attempts to drain the queue
func (l *Limiter) release() {
	l.mutex.Lock()
	l.running--
	l.drain()
	l.mutex.Unlock()
}

// drain starts queued items while permits are available. Must be called with
// the mutex held.
func (l *Limiter) drain() {
	for l.running < l.max && len(l.queue) > 0 {
		next := l.queue[0]
		l.queue = l.queue[1:]
		l.running++
		go next()
	}
}

// Running returns the number of currently running work items
func (l *Limiter) Running() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.running
}

// Pending returns the number of queued work items not yet started
func (l *Limiter) Pending() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.queue)
}

// Future is the deferred result of a submitted work item
type Future[T any] struct {
	done   chan struct{}
	result T
	err    error
}

// Wait blocks until the work item completes or the context is cancelled.
// Cancellation abandons the result but does not stop the underlying work;
// the permit is always released when the work finishes.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit queues a unit of work and returns a Future that resolves with the
// work's own result once it has been admitted and has completed. A panic in
// the work function fails the future and releases the permit; permits are
// never leaked.
func Submit[T any](l *Limiter, fn func() (T, error)) *Future[T] {
	f := &Future[T]{
		done: make(chan struct{}),
	}
	l.enqueue(func() {
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("work item panic: %v", r)
			}
			l.release()
			close(f.done)
		}()
		f.result, f.err = fn()
	})
	return f
}
