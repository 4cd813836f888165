// Package bus is a small event bus for cross-component signaling.
//
// Subscriptions are grouped by owner. Release drops everything one owner
// registered on a bus; Clear empties it.
package bus

import "sync"

// Handler receives the payload passed to Trigger.
type Handler func(payload any)

type subscription struct {
	owner   any
	handler Handler
}

// Bus dispatches named events to subscribers. The zero value is ready to use.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]subscription
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{}
}

// On subscribes fn to event on behalf of owner.
func (b *Bus) On(event string, owner any, fn Handler) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[string][]subscription)
	}
	b.subs[event] = append(b.subs[event], subscription{owner: owner, handler: fn})
}

// Off removes every subscription owner holds for event.
func (b *Bus) Off(event string, owner any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[event]
	kept := subs[:0]
	for _, s := range subs {
		if s.owner != owner {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(b.subs, event)
		return
	}
	b.subs[event] = kept
}

// Release removes every subscription owner holds on b.
func (b *Bus) Release(owner any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for event, subs := range b.subs {
		kept := subs[:0]
		for _, s := range subs {
			if s.owner != owner {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(b.subs, event)
			continue
		}
		b.subs[event] = kept
	}
}

// Trigger calls every handler subscribed to event, in subscription order.
// Handlers run on the caller's goroutine without the bus lock held.
func (b *Bus) Trigger(event string, payload any) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs[event]...)
	b.mu.Unlock()
	for _, s := range subs {
		s.handler(payload)
	}
}

// Clear removes all subscriptions.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, subs := range b.subs {
		n += len(subs)
	}
	return n
}
