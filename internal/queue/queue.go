// Package queue provides the unbounded FIFOs that connect the transport to
// the presentation loop. Producers never block.
package queue

import (
	"context"
	"sync"
)

type Queue[T any] struct {
	name     string
	mu       sync.Mutex
	elements []T
	ready    chan struct{}
}

// New returns an empty queue identified by name.
func New[T any](name string) *Queue[T] {
	return &Queue[T]{
		name:  name,
		ready: make(chan struct{}, 1),
	}
}

func (q *Queue[T]) Name() string {
	return q.name
}

// Push appends msg and wakes a waiting Pull.
func (q *Queue[T]) Push(msg T) {
	q.mu.Lock()
	q.elements = append(q.elements, msg)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Drain removes and returns everything queued. It never waits.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	msgs := q.elements
	q.elements = nil
	q.mu.Unlock()
	return msgs
}

// Pull waits for the next element. It returns false when ctx is done first.
func (q *Queue[T]) Pull(ctx context.Context) (T, bool) {
	for {
		q.mu.Lock()
		if len(q.elements) > 0 {
			msg := q.elements[0]
			var zero T
			q.elements[0] = zero
			q.elements = q.elements[1:]
			q.mu.Unlock()
			return msg, true
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.elements)
}
