package websocket

import (
	"sync"
	"testing"
	"time"
)

// register pushes a client into the hub and waits until the Run loop has
// absorbed it, using a probe message that only a registered client receives.
func register(t *testing.T, h *Hub, c *Client) {
	t.Helper()
	h.Register <- c
	h.BroadcastTo(c.Username, []byte("registered"))
	select {
	case <-c.Send:
	case <-time.After(time.Second):
		t.Fatal("client not registered in time")
	}
}

func TestHub_BroadcastToTargetsOneUsername(t *testing.T) {
	h := NewHub()
	go h.Run()

	alice := NewClient(h, nil, "alice")
	alice2 := NewClient(h, nil, "alice")
	bob := NewClient(h, nil, "bob")

	// Sends below come from this goroutine in order, so the Run loop has
	// absorbed every registration once the sync broadcast arrives.
	h.Register <- alice
	h.Register <- alice2
	h.Register <- bob
	h.Broadcast <- []byte("sync")
	for _, c := range []*Client{alice, alice2, bob} {
		select {
		case <-c.Send:
		case <-time.After(time.Second):
			t.Fatal("client not registered in time")
		}
	}

	h.BroadcastTo("alice", []byte("hello"))

	for _, c := range []*Client{alice, alice2} {
		select {
		case msg := <-c.Send:
			if string(msg) != "hello" {
				t.Fatalf("got %q", msg)
			}
		case <-time.After(time.Second):
			t.Fatal("subscribed client got no message")
		}
	}

	select {
	case msg := <-bob.Send:
		t.Fatalf("bob received %q, message was addressed to alice", msg)
	default:
	}
}

func TestHub_UnregisterClosesSendOnce(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := NewClient(h, nil, "alice")
	register(t, h, c)

	h.Unregister <- c
	// A second unregister of the same client must be a no-op, not a double
	// close. Sends after removal simply go nowhere.
	h.Unregister <- c
	h.BroadcastTo("alice", []byte("late"))

	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatal("unexpected message after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

// Predictions call BroadcastTo from request goroutines while connects and
// disconnects mutate the hub; the loop must serialize them all.
func TestHub_ConcurrentChurnAndBroadcast(t *testing.T) {
	h := NewHub()
	go h.Run()

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			c := NewClient(h, nil, "alice")
			h.Register <- c
			h.Unregister <- c
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			h.BroadcastTo("alice", []byte("result ready"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			h.Broadcast <- []byte("stats")
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("hub deadlocked under concurrent load")
	}
}
