package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "channel closed")
		return snap
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
		return Snapshot{}
	}
}

func TestSubscribeDeliversCurrentStateFirst(t *testing.T) {
	t.Parallel()

	h := NewHub()
	h.Publish(PathUsers, true, map[string]string{"u1": "x"})

	ch, cancel := h.Subscribe(PathUsers)
	defer cancel()

	snap := recv(t, ch)
	assert.Equal(t, PathUsers, snap.Path)
	assert.True(t, snap.Exists)
}

func TestPublishReachesSubscribers(t *testing.T) {
	t.Parallel()

	h := NewHub()
	ch, cancel := h.Subscribe(PathCertificates)
	defer cancel()

	h.Publish(PathCertificates, false, nil)

	snap := recv(t, ch)
	assert.False(t, snap.Exists)
	assert.Nil(t, snap.Value)
}

func TestSlowSubscriberGetsLatestSnapshot(t *testing.T) {
	t.Parallel()

	h := NewHub()
	ch, cancel := h.Subscribe(PathUsers)
	defer cancel()

	// Nobody reads between publishes; the stale snapshot is dropped.
	h.Publish(PathUsers, true, "first")
	h.Publish(PathUsers, true, "second")
	h.Publish(PathUsers, true, "third")

	snap := recv(t, ch)
	assert.Equal(t, "third", snap.Value)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	h := NewHub()
	ch, cancel := h.Subscribe(PathUsers)
	cancel()
	cancel() // safe to call again

	h.Publish(PathUsers, true, "late")

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
}

func TestPathsAreIndependent(t *testing.T) {
	t.Parallel()

	h := NewHub()
	ch, cancel := h.Subscribe(PathProfiles)
	defer cancel()

	h.Publish(PathUsers, true, "users only")

	select {
	case snap := <-ch:
		t.Fatalf("unexpected snapshot on profiles path: %+v", snap)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	h := NewHub()
	_, ok := h.Latest(PathUsers)
	assert.False(t, ok)

	h.Publish(PathUsers, true, "now")
	snap, ok := h.Latest(PathUsers)
	require.True(t, ok)
	assert.Equal(t, "now", snap.Value)
}
