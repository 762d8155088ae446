package notify

import "sync"

// Handler receives a notification payload. Handlers run synchronously on the
// mutating call's goroutine and must not block.
type Handler[T any] func(T)

// Notifier fans a payload out to all current subscribers. Unlike a
// channel-based broadcaster, delivery is synchronous: Notify returns only
// after every subscriber has been invoked, which lets mutating operations
// guarantee observers were told before the operation reports success.
//
// All methods are safe for concurrent use.
type Notifier[T any] struct {
	handlers map[int]Handler[T]
	nextID   int
	mu       sync.RWMutex
}

// New creates an empty notifier.
func New[T any]() *Notifier[T] {
	return &Notifier[T]{handlers: make(map[int]Handler[T])}
}

// Subscribe registers a handler and returns a function that removes it.
// Nil handlers are ignored and yield a no-op unsubscribe.
func (n *Notifier[T]) Subscribe(h Handler[T]) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.handlers[id] = h
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.handlers, id)
			n.mu.Unlock()
		})
	}
}

// Notify invokes every subscribed handler with the payload.
// Handlers are called outside the notifier's lock so a handler may
// subscribe or unsubscribe without deadlocking.
func (n *Notifier[T]) Notify(payload T) {
	n.mu.RLock()
	snapshot := make([]Handler[T], 0, len(n.handlers))
	for _, h := range n.handlers {
		snapshot = append(snapshot, h)
	}
	n.mu.RUnlock()

	for _, h := range snapshot {
		h(payload)
	}
}

// Len returns the number of active subscribers.
func (n *Notifier[T]) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.handlers)
}
