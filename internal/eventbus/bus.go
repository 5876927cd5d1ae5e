// Package eventbus is the in-process notification bus. Posts are
// fire-and-forget: handler panics are recovered and logged, and a post with
// no subscriber only logs a warning.
package eventbus

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Event names posted after a parent deletion completes.
const (
	ClientDeleted   = "ClientDeleted"
	TaskTypeDeleted = "TaskTypeDeleted"
)

// Event is what handlers receive.
type Event struct {
	Name    string
	Payload any
}

type Handler func(ctx context.Context, e Event)

type Bus struct {
	log *logrus.Logger

	mu   sync.RWMutex
	subs map[string][]Handler
	all  []Handler
}

func New(log *logrus.Logger) *Bus {
	return &Bus{log: log, subs: make(map[string][]Handler)}
}

// Subscribe registers h for events named name. An empty name subscribes to
// every event.
func (b *Bus) Subscribe(name string, h Handler) {
	if h == nil {
		panic("eventbus: nil handler")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if name == "" {
		b.all = append(b.all, h)
		return
	}
	b.subs[name] = append(b.subs[name], h)
}

// SubscribersCount returns the number of handlers that would receive name.
func (b *Bus) SubscribersCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name]) + len(b.all)
}

// Post delivers the event synchronously to every matching handler.
func (b *Bus) Post(ctx context.Context, name string, payload any) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[name])+len(b.all))
	handlers = append(handlers, b.subs[name]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		if b.log != nil {
			b.log.WithField("event", name).Warn("eventbus.Post: no matching subscribers")
		}
		return
	}

	e := Event{Name: name, Payload: payload}
	for _, h := range handlers {
		b.dispatch(ctx, h, e)
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil && b.log != nil {
			b.log.WithField("event", e.Name).Errorf("eventbus: handler panicked with payload %v: %v", e.Payload, r)
		}
	}()
	h(ctx, e)
}
