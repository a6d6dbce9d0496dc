package rtc

import "sync"

// Conn is the minimal surface a room broadcaster needs from a connection:
// something addressable by socket id that can receive a wire event and be
// force-closed. Client implements this; tests substitute a fake.
type Conn interface {
	SocketID() string
	Send(event string, payload interface{})
	Close()
}

// broadcaster is the explicit observer registry RTC core uses in place of
// inheriting from an event emitter (spec §9): subscribe/unsubscribe/publish,
// keyed by socketId, with directed and excluded variants for the
// joiner-doesn't-hear-its-own-join and peer-to-peer relay cases.
type broadcaster struct {
	mu   sync.RWMutex
	subs map[string]Conn
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[string]Conn)}
}

func (b *broadcaster) subscribe(socketID string, conn Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[socketID] = conn
}

func (b *broadcaster) unsubscribe(socketID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, socketID)
}

func (b *broadcaster) get(socketID string) (Conn, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.subs[socketID]
	return c, ok
}

func (b *broadcaster) size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// publish sends event/payload to every subscribed connection.
func (b *broadcaster) publish(event string, payload interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.subs {
		c.Send(event, payload)
	}
}

// publishExcept sends to every subscriber except exceptSocketID.
func (b *broadcaster) publishExcept(exceptSocketID, event string, payload interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for socketID, c := range b.subs {
		if socketID == exceptSocketID {
			continue
		}
		c.Send(event, payload)
	}
}

// publishTo sends to a single subscriber, if still connected.
func (b *broadcaster) publishTo(socketID, event string, payload interface{}) {
	b.mu.RLock()
	c, ok := b.subs[socketID]
	b.mu.RUnlock()
	if ok {
		c.Send(event, payload)
	}
}
