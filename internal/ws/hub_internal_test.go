package ws

import (
	"testing"

	"github.com/edgewatch/edgewatch/internal/logsource"
	"github.com/edgewatch/edgewatch/internal/store"
)

// TestBroadcast_BurstEvictsWithoutPoisoningSends pins down the
// registered-but-not-yet-pumping window: a dispatch burst larger than the
// client's send buffer evicts the client, and the connect-time backlog send
// that follows must still be safe (send channels are never closed).
func TestBroadcast_BurstEvictsWithoutPoisoningSends(t *testing.T) {
	h := New(store.New(10))
	c := &client{
		send: make(chan []byte, sendBufSize),
		done: make(chan struct{}),
	}
	if !h.register(c) {
		t.Fatal("register refused on open hub")
	}

	// Nothing drains c.send, so the burst overflows the buffer and takes
	// Broadcast's eviction branch.
	for i := 0; i < sendBufSize+5; i++ {
		h.Broadcast(store.Record{
			Entry:   logsource.Entry{ID: "log-1", Severity: "error"},
			CheckID: "chk-1",
		})
	}

	if h.Count() != 0 {
		t.Fatalf("slow client still registered: count=%d", h.Count())
	}
	select {
	case <-c.done:
	default:
		t.Fatal("done not closed on eviction")
	}

	// The backlog send in ServeHTTP takes this exact shape after register;
	// it must not panic on an already-evicted client.
	select {
	case c.send <- []byte("backlog"):
	default:
	}

	// Repeated eviction is a no-op.
	h.unregister(c)
}

func TestRegister_RefusedAfterClose(t *testing.T) {
	h := New(store.New(10))
	h.closeAll()

	c := &client{
		send: make(chan []byte, sendBufSize),
		done: make(chan struct{}),
	}
	if h.register(c) {
		t.Fatal("register accepted on closed hub")
	}
	if h.Count() != 0 {
		t.Fatalf("count after refused register: %d", h.Count())
	}
}
