package cookiestore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// ChangeEvent describes cookies that were set or deleted.
type ChangeEvent struct {
	Changed []Item
	Deleted []Item
}

// Listener receives change events.
type Listener func(ctx context.Context, ev ChangeEvent)

// ListenerID identifies a registered listener. The zero value is never issued.
type ListenerID string

// Events is a concurrency-safe EventTarget that stores can embed.
// The zero value is ready to use.
type Events struct {
	mu        sync.RWMutex
	order     []ListenerID
	listeners map[ListenerID]Listener
}

var _ EventTarget = (*Events)(nil)

func (e *Events) AddListener(l Listener) ListenerID {
	if l == nil {
		return ""
	}

	id := ListenerID(uuid.NewString())

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[ListenerID]Listener)
	}
	e.listeners[id] = l
	e.order = append(e.order, id)
	return id
}

func (e *Events) RemoveListener(id ListenerID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.listeners[id]; !ok {
		return
	}
	delete(e.listeners, id)
	for i, v := range e.order {
		if v == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Dispatch calls listeners synchronously in registration order.
func (e *Events) Dispatch(ctx context.Context, ev ChangeEvent) bool {
	e.mu.RLock()
	ls := make([]Listener, 0, len(e.order))
	for _, id := range e.order {
		ls = append(ls, e.listeners[id])
	}
	e.mu.RUnlock()

	for _, l := range ls {
		l(ctx, ev)
	}
	return len(ls) > 0
}
