package realtime

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	failing  bool
	closed   bool
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return assert.AnError
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.messages = append(f.messages, cp)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.messages...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a, b := &fakeConn{}, &fakeConn{}
	hub.register <- a
	hub.register <- b

	hub.Broadcast("table.updated", map[string]any{"id": 1, "status": "OCCUPIED"})

	waitFor(t, func() bool { return len(a.received()) == 1 && len(b.received()) == 1 })

	var ev Event
	require.NoError(t, json.Unmarshal(a.received()[0], &ev))
	assert.Equal(t, "table.updated", ev.Event)
	assert.False(t, ev.TS.IsZero())
}

func TestHub_UnregisteredClientStopsReceiving(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &fakeConn{}
	hub.register <- a
	hub.unregister <- a

	hub.Broadcast("order.created", nil)
	// second event flushes the loop so we know the first one was handled
	b := &fakeConn{}
	hub.register <- b
	hub.Broadcast("order.created", nil)

	waitFor(t, func() bool { return len(b.received()) >= 1 })
	assert.Empty(t, a.received())
}

func TestHub_DropsFailingClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	bad := &fakeConn{failing: true}
	good := &fakeConn{}
	hub.register <- bad
	hub.register <- good

	hub.Broadcast("order.status_changed", nil)
	waitFor(t, func() bool { return len(good.received()) == 1 })

	bad.mu.Lock()
	closed := bad.closed
	bad.mu.Unlock()
	assert.True(t, closed, "a client that cannot be written to gets closed and dropped")
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHub() // not running on purpose

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ { // more than the buffer
			hub.Broadcast("table.updated", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked with no running hub")
	}
}
