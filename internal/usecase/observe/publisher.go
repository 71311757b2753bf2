// Package observe provides the in-process publish/subscribe used by the
// catalog and the quiz engine to announce state changes.
package observe

import "sync"

// Publisher delivers values of type T to registered callbacks, one value at
// a time and in the order the values were enqueued. Every subscriber sees a
// value before any subscriber sees the next one.
//
// Owners of state call Enqueue while still holding the lock that guards the
// state, then Flush after releasing it. That keeps deliveries in the order the
// state changed even when a callback changes the state again, or when several
// goroutines change it at once. Whoever is already delivering delivers values
// enqueued meanwhile, so Flush may return before its value has been seen.
type Publisher[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	subs     []subscriber[T]
	queue    []T
	draining bool
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it.
// Calling cancel more than once is safe.
func (p *Publisher[T]) Subscribe(fn func(T)) (cancel func()) {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs = append(p.subs, subscriber[T]{id: id, fn: fn})
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { p.unsubscribe(id) })
	}
}

func (p *Publisher[T]) unsubscribe(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.subs {
		if s.id == id {
			p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
			return
		}
	}
}

// Enqueue appends v to the delivery queue without delivering it.
func (p *Publisher[T]) Enqueue(v T) {
	p.mu.Lock()
	p.queue = append(p.queue, v)
	p.mu.Unlock()
}

// Flush delivers queued values until the queue is empty. If another call is
// already delivering, Flush returns at once and leaves the values to it.
// Subscribers added or removed by a callback take effect from the next value.
func (p *Publisher[T]) Flush() {
	p.mu.Lock()
	if p.draining {
		p.mu.Unlock()
		return
	}
	p.draining = true
	p.mu.Unlock()

	completed := false
	defer func() {
		if !completed {
			// A callback panicked; let the next Flush deliver the rest.
			p.mu.Lock()
			p.draining = false
			p.mu.Unlock()
		}
	}()

	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.queue = nil
			p.draining = false
			p.mu.Unlock()
			completed = true
			return
		}
		v := p.queue[0]
		var zero T
		p.queue[0] = zero
		p.queue = p.queue[1:]
		subs := p.subs
		p.mu.Unlock()

		for _, s := range subs {
			s.fn(v)
		}
	}
}

// Publish enqueues v and flushes.
func (p *Publisher[T]) Publish(v T) {
	p.Enqueue(v)
	p.Flush()
}

// Len returns the number of active subscribers.
func (p *Publisher[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}
