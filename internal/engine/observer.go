package engine

import (
	"context"
	"sync"
)

// Observer receives operation results. OnResult runs on the goroutine
// executing Run and may call back into the engine, including starting
// operations and removing observers.
type Observer interface {
	OnResult(r Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r Result)

// OnResult calls f(r).
func (f ObserverFunc) OnResult(r Result) {
	f(r)
}

// ObserverID identifies a registered observer.
type ObserverID uint64

type observerEntry struct {
	id  ObserverID
	obs Observer
}

// observerSet is copy-on-write: a notification round iterates the slice that
// was current when it started, and skips entries removed since.
type observerSet struct {
	mu      sync.Mutex
	nextID  ObserverID
	entries []observerEntry
}

func (s *observerSet) add(o Observer) ObserverID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	next := make([]observerEntry, 0, len(s.entries)+1)
	next = append(next, s.entries...)
	next = append(next, observerEntry{id: s.nextID, obs: o})
	s.entries = next
	return s.nextID
}

func (s *observerSet) remove(id ObserverID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.id != id {
			continue
		}
		next := make([]observerEntry, 0, len(s.entries)-1)
		next = append(next, s.entries[:i]...)
		next = append(next, s.entries[i+1:]...)
		s.entries = next
		return true
	}
	return false
}

func (s *observerSet) registered(id ObserverID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.id == id {
			return true
		}
	}
	return false
}

func (s *observerSet) snapshot() []observerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries
}

func (s *observerSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *observerSet) notify(r Result) {
	for _, e := range s.snapshot() {
		if !s.registered(e.id) {
			continue
		}
		e.obs.OnResult(r)
	}
}

// subscription queues results for a channel reader so a slow reader never
// blocks the notifying goroutine.
type subscription struct {
	mu     sync.Mutex
	queue  []Result
	signal chan struct{}
	done   chan struct{}
	out    chan Result
	once   sync.Once
}

func newSubscription() *subscription {
	s := &subscription{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
		out:    make(chan Result),
	}
	go s.pump()
	return s
}

func (s *subscription) OnResult(r Result) {
	s.mu.Lock()
	s.queue = append(s.queue, r)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscription) pump() {
	defer close(s.out)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.signal:
				continue
			case <-s.done:
				return
			}
		}
		r := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- r:
		case <-s.done:
			return
		}
	}
}

func (s *subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

// AddObserver registers o and returns an ID for RemoveObserver.
func (e *Engine) AddObserver(o Observer) ObserverID {
	return e.observers.add(o)
}

// RemoveObserver unregisters the observer with id. It is safe to call from
// inside OnResult; the removed observer receives nothing further, even later
// in the current notification round.
func (e *Engine) RemoveObserver(id ObserverID) {
	e.observers.remove(id)
}

// Subscribe returns a channel receiving every result delivered after the
// call, and a function that unregisters it and closes the channel.
func (e *Engine) Subscribe() (<-chan Result, func()) {
	sub := newSubscription()
	id := e.observers.add(sub)

	return sub.out, func() {
		e.observers.remove(id)
		sub.stop()
	}
}

// Await subscribes, calls start, and returns the first result of kind. It
// returns early with the context error, or ErrClosed once the engine is
// closed. A result from a newer operation of the same kind that superseded
// the one start launched is returned as well.
func (e *Engine) Await(ctx context.Context, kind Kind, start func()) (Result, error) {
	results, unsubscribe := e.Subscribe()
	defer unsubscribe()

	start()

	for {
		select {
		case r := <-results:
			if r.Kind() == kind {
				return r, nil
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-e.closed:
			return nil, ErrClosed
		}
	}
}
