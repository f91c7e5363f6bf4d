package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHub(t *testing.T) (*Hub, context.CancelFunc, chan struct{}) {
	t.Helper()

	hub := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	return hub, cancel, stopped
}

func waitFor(t *testing.T, ch chan struct{}, what string) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub, cancel, stopped := runHub(t)
	defer func() {
		cancel()
		waitFor(t, stopped, "hub to stop")
	}()

	client := NewClient(hub, nil, &ClientAuth{IdentityID: 7, Role: "technician"})
	hub.Register <- client

	require.Eventually(t, func() bool {
		return hub.TotalClients() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Registration greets the client.
	select {
	case <-client.send:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a connected event on the client queue")
	}

	hub.drop(client)

	require.Eventually(t, func() bool {
		return hub.TotalClients() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubDropAfterShutdownDoesNotBlock(t *testing.T) {
	hub, cancel, stopped := runHub(t)

	client := NewClient(hub, nil, &ClientAuth{IdentityID: 9, Role: "technician"})
	hub.Register <- client

	cancel()
	waitFor(t, stopped, "hub to stop")

	// A read pump ending after shutdown must not hang on the unregister
	// channel nobody is draining.
	dropped := make(chan struct{})
	go func() {
		hub.drop(client)
		close(dropped)
	}()
	waitFor(t, dropped, "drop to return after shutdown")

	// The client queue is closed either by shutdown or by the fallback path;
	// drain any queued events first.
	closed := false
	for !closed {
		select {
		case _, ok := <-client.send:
			closed = !ok
		case <-time.After(2 * time.Second):
			t.Fatal("expected the send queue to be closed")
		}
	}
	assert.True(t, closed)
}
