package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tegami/tegami-backend/internal/domain"
)

func newTestClient(h *Hub, userID string) *Client {
	return &Client{hub: h, send: make(chan []byte, 4), userID: userID}
}

func TestHub_NotifyReachesOnlyTargetUser(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	alice := newTestClient(h, "alice")
	bob := newTestClient(h, "bob")
	h.Register(alice)
	h.Register(bob)
	require.Eventually(t, func() bool { return h.Connected("alice") == 1 && h.Connected("bob") == 1 }, time.Second, 5*time.Millisecond)

	h.Notify(domain.Notification{Type: domain.EventLetterDelivered, UserID: "bob", Payload: map[string]string{"id": "l1"}})

	select {
	case data := <-bob.send:
		var got domain.Notification
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, domain.EventLetterDelivered, got.Type)
		assert.Equal(t, "bob", got.UserID)
	case <-time.After(time.Second):
		t.Fatal("bob did not receive the notification")
	}

	select {
	case <-alice.send:
		t.Fatal("alice received bob's notification")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	c := newTestClient(h, "alice")
	h.Register(c)
	h.Unregister(c)

	require.Eventually(t, func() bool { return h.Connected("alice") == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.send
	assert.False(t, open)

	// a second unregister is a no-op
	h.Unregister(c)
}

func TestHub_NotifyAfterStopDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	h.Stop()

	done := make(chan struct{})
	go func() {
		h.Notify(domain.Notification{Type: domain.EventPenpalRequest, UserID: "x"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked after Stop")
	}
}
