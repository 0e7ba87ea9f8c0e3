package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case b, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var env Envelope
		require.NoError(t, json.Unmarshal(b, &env))
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
	return Envelope{}
}

func TestHub_BroadcastReachesRoomOnly(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	a := NewClient(nil, h, "channel:a", 1, 10)
	b := NewClient(nil, h, "channel:b", 2, 20)
	h.Register(a)
	h.Register(b)

	h.Broadcast("channel:a", "channel_message", map[string]any{"ciphertext": "GLNCQ"})

	env := recv(t, a)
	assert.Equal(t, "channel_message", env.Type)
	assert.Equal(t, map[string]any{"ciphertext": "GLNCQ"}, env.Payload)
	assert.NotEmpty(t, env.Timestamp)

	select {
	case <-b.Send:
		t.Fatal("client in another room received the broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	c := NewClient(nil, h, "channel:a", 1, 10)
	h.Register(c)
	h.Unregister(c)

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("send channel not closed")
	}
	assert.NoError(t, c.SendDirect("error", nil))
}

func TestHub_StopIsIdempotentAndUnblocksCallers(t *testing.T) {
	h := NewHub()
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	c := NewClient(nil, h, "channel:a", 1, 10)
	h.Register(c)
	h.Stop()
	h.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	assert.Equal(t, 0, h.roomSize("channel:a"))

	late := NewClient(nil, h, "channel:a", 2, 11)
	h.Register(late)
	h.Unregister(late)
	h.Broadcast("channel:a", "x", nil)
	_, ok := <-late.Send
	assert.False(t, ok)
}

func TestHubRef(t *testing.T) {
	first := NewHub()
	ref := NewHubRef(first)
	got, ok := ref.Get()
	require.True(t, ok)
	assert.Same(t, first, got)

	second := NewHub()
	ref.Set(second)
	got, _ = ref.Get()
	assert.Same(t, second, got)
}

func TestHub_DropDeckDisconnectsOnlyThatDeck(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	dropped := NewClient(nil, h, "channel:a", 2, 20)
	kept := NewClient(nil, h, "channel:a", 1, 10)
	h.Register(dropped)
	h.Register(kept)

	h.DropDeck(20)
	h.Broadcast("channel:a", "channel_message", map[string]any{"ciphertext": "WBMPM"})

	assert.Equal(t, "channel_message", recv(t, kept).Type)
	select {
	case _, ok := <-dropped.Send:
		assert.False(t, ok, "dropped client received a frame")
	case <-time.After(2 * time.Second):
		t.Fatal("dropped client's send channel not closed")
	}
}
