package live

import (
	"encoding/json"
	"testing"
	"time"

	"zaika/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send: make(chan []byte, 10),
	}

	// register client
	hub.register <- client

	// broadcast a test order
	hub.BroadcastOrderCreated(models.Order{
		OrderID: "ord-test-1",
		Status:  models.OrderPending,
		Total:   103.00,
	})

	select {
	case got := <-client.Send:
		var e event
		if err := json.Unmarshal(got, &e); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if e.Type != "order_created" || e.OrderID != "ord-test-1" {
			t.Fatalf("unexpected event: %+v", e)
		}
		if e.Total != 103.00 {
			t.Fatalf("expected total 103.00, got %v", e.Total)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	// unregister client
	hub.unregister <- client
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// buffer of 1: second broadcast overflows and should evict the client
	client := &Client{
		Send: make(chan []byte, 1),
	}
	hub.register <- client

	hub.BroadcastStatusChanged("ord-1", models.OrderShipped)
	hub.BroadcastStatusChanged("ord-2", models.OrderShipped)

	// give the hub a moment to process
	time.Sleep(50 * time.Millisecond)

	hub.mu.Lock()
	_, stillThere := hub.clients[client]
	hub.mu.Unlock()
	if stillThere {
		t.Fatal("expected slow client to be evicted")
	}
}

func TestDropAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		Send: make(chan []byte, 1),
	}
	hub.register <- client

	hub.Stop()

	// a client disconnecting after shutdown must not hang on unregister
	done := make(chan struct{})
	go func() {
		hub.drop(client)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("drop blocked after hub stop")
	}
}

func TestStopReleasesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		Send: make(chan []byte, 1),
	}
	hub.register <- client

	// give the hub a moment to process the registration
	time.Sleep(50 * time.Millisecond)

	hub.Stop()

	// Send is closed so the write pump can drain and exit
	select {
	case _, open := <-client.Send:
		if open {
			t.Fatal("expected Send to be closed")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for Send to close")
	}

	hub.mu.Lock()
	n := len(hub.clients)
	hub.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected no clients after stop, got %d", n)
	}
}
