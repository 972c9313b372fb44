package session

import (
	"sync"
	"time"

	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type EventKind string

const (
	EventLoggedIn  EventKind = "logged_in"
	EventLoggedOut EventKind = "logged_out"
)

type Reason string

const (
	ReasonLogin        Reason = "login"
	ReasonRegister     Reason = "register"
	ReasonLogout       Reason = "logout"
	ReasonUnauthorized Reason = "unauthorized"
)

// Event is the auth-change notification.
type Event struct {
	Kind   EventKind
	Reason Reason
	At     time.Time
}

type Listener func(Event)

type hub struct {
	mu        sync.RWMutex
	log       *logger.Logger
	nextID    uint64
	listeners map[uint64]Listener
}

func newHub(log *logger.Logger) *hub {
	return &hub{log: log, listeners: make(map[uint64]Listener)}
}

func (h *hub) subscribe(l Listener) func() {
	if l == nil {
		return func() {}
	}
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.listeners[id] = l
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// publish calls listeners outside the lock so they may read the store or unsubscribe.
func (h *hub) publish(ev Event) {
	h.mu.RLock()
	snapshot := make([]Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		snapshot = append(snapshot, l)
	}
	h.mu.RUnlock()

	for _, l := range snapshot {
		h.deliver(l, ev)
	}
}

func (h *hub) deliver(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Warn("auth-change listener panicked", "kind", ev.Kind, "panic", r)
		}
	}()
	l(ev)
}

func (h *hub) clear() {
	h.mu.Lock()
	h.listeners = make(map[uint64]Listener)
	h.mu.Unlock()
}

func (h *hub) size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
