package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryConnectDisconnect(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	r.OnConnect("alice", "c1")
	r.OnConnect("bob", "c2")
	assert.Equal(t, []string{"alice", "bob"}, r.Snapshot())

	connID, ok := r.Lookup("alice")
	assert.True(t, ok)
	assert.Equal(t, "c1", connID)

	assert.True(t, r.OnDisconnect("alice", "c1"))
	assert.Equal(t, []string{"bob"}, r.Snapshot())

	_, ok = r.Lookup("alice")
	assert.False(t, ok)
}

func TestRegistryIgnoresMalformedHandshakes(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	r.OnConnect("", "c1")
	r.OnConnect("undefined", "c2")
	r.OnConnect("alice", "")

	assert.Empty(t, r.Snapshot())
}

func TestRegistryReconnectLastWins(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	r.OnConnect("alice", "c1")
	r.OnConnect("alice", "c2")

	connID, ok := r.Lookup("alice")
	assert.True(t, ok)
	assert.Equal(t, "c2", connID)
	assert.Equal(t, []string{"alice"}, r.Snapshot())
}

func TestRegistryStaleDisconnectDoesNotEvict(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	// Reconnect replaces c1, then c1's disconnect arrives late.
	r.OnConnect("alice", "c1")
	r.OnConnect("alice", "c2")
	assert.False(t, r.OnDisconnect("alice", "c1"))

	connID, ok := r.Lookup("alice")
	assert.True(t, ok)
	assert.Equal(t, "c2", connID)
}

func TestRegistryDoubleDisconnect(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	r.OnConnect("alice", "c1")
	assert.True(t, r.OnDisconnect("alice", "c1"))
	assert.False(t, r.OnDisconnect("alice", "c1"))
	assert.Empty(t, r.Snapshot())
}

func TestRegistrySnapshotMatchesLiveSet(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	// Arbitrary interleaving of connects and disconnects; the snapshot must
	// equal exactly the set of users whose latest connection is still open.
	r.OnConnect("a", "c1")
	r.OnConnect("b", "c2")
	r.OnConnect("c", "c3")
	r.OnDisconnect("b", "c2")
	r.OnConnect("b", "c4")
	r.OnConnect("a", "c5")   // reconnect
	r.OnDisconnect("a", "c1") // stale
	r.OnDisconnect("c", "c3")

	assert.Equal(t, []string{"a", "b"}, r.Snapshot())
}
