// Package realtime fans snapshots of record-store subtrees out to
// subscribers, the way the old Firebase onValue callbacks did: the current
// state arrives immediately on subscribe, then a full snapshot again on
// every change.
package realtime

import "sync"

// Subtree paths published by the store layer.
const (
	PathUsers        = "users"
	PathCertificates = "certificates"
	PathProfiles     = "profiles" // derived employer view, safe for anonymous eyes
)

// Snapshot is a full point-in-time copy of one subtree. Exists is false
// when the subtree has no data at all.
type Snapshot struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Value  any    `json:"value,omitempty"`
}

type Hub struct {
	mu     sync.Mutex
	latest map[string]Snapshot
	subs   map[string]map[uint64]chan Snapshot
	nextID uint64
}

func NewHub() *Hub {
	return &Hub{
		latest: make(map[string]Snapshot),
		subs:   make(map[string]map[uint64]chan Snapshot),
	}
}

// Feed is the process-wide hub the store publishes into.
var Feed = NewHub()

// Publish replaces the cached snapshot for path and notifies every
// subscriber. A slow subscriber only ever loses intermediate snapshots,
// never the latest one.
func (h *Hub) Publish(path string, exists bool, value any) {
	snap := Snapshot{Path: path, Exists: exists, Value: value}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest[path] = snap
	for _, ch := range h.subs[path] {
		send(ch, snap)
	}
}

// Subscribe registers for snapshots of one subtree. If a snapshot is
// already cached it is delivered right away. The returned cancel func stops
// delivery and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(path string) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[path] == nil {
		h.subs[path] = make(map[uint64]chan Snapshot)
	}
	h.subs[path][id] = ch
	if snap, ok := h.latest[path]; ok {
		send(ch, snap)
	}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[path], id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Latest returns the cached snapshot for path, if any.
func (h *Hub) Latest(path string) (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	snap, ok := h.latest[path]
	return snap, ok
}

// send delivers with coalescing: when the buffer is full the stale snapshot
// is dropped in favor of the new one. Callers hold h.mu, so sends never race
// a close.
func send(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
