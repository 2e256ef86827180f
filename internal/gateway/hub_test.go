package gateway

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamchat/internal/domain"
	"teamchat/internal/logging"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		go hub.run(conn)
	}))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Wait for registration before broadcasting.
	require.Eventually(t, func() bool { return hub.Count() == 1 },
		time.Second, 10*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt Event
	require.NoError(t, conn.ReadJSON(&evt))
	return evt
}

func TestHub_BroadcastsMessageAdded(t *testing.T) {
	hub := NewHub(logging.New(nil, "silent"))
	conn := dialHub(t, hub)

	msg := domain.Message{ID: "m1", Content: "hej", Sender: domain.SenderAgent, AgentID: "nova"}
	hub.MessageAdded("teamchat", msg)

	evt := readEvent(t, conn)
	assert.Equal(t, "message.added", evt.Type)
	assert.Equal(t, "teamchat", evt.ChannelID)
	require.NotNil(t, evt.Message)
	assert.Equal(t, "m1", evt.Message.ID)
	assert.Equal(t, "nova", evt.AgentID)
}

func TestHub_BroadcastsComposing(t *testing.T) {
	hub := NewHub(logging.New(nil, "silent"))
	conn := dialHub(t, hub)

	hub.ComposingChanged("viktor")
	evt := readEvent(t, conn)
	assert.Equal(t, "composing", evt.Type)
	assert.Equal(t, "viktor", evt.AgentID)

	// Clearing the slot is its own event with an empty agent id.
	hub.ComposingChanged("")
	evt = readEvent(t, conn)
	assert.Equal(t, "composing", evt.Type)
	assert.Equal(t, "", evt.AgentID)
}

func TestHub_DisconnectRemovesClient(t *testing.T) {
	hub := NewHub(logging.New(nil, "silent"))
	conn := dialHub(t, hub)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Count() == 0 },
		time.Second, 10*time.Millisecond)

	// Broadcasting to nobody must not block or panic.
	hub.ComposingChanged("nova")
}

func TestHub_DropsStalledClient(t *testing.T) {
	hub := NewHub(logging.New(nil, "silent"))
	dialHub(t, hub) // connected but never reads

	// Large payloads fill the peer's socket buffers, stalling writePump
	// mid-write; once the send buffer fills too, broadcast must drop the
	// client and disconnect it without blocking or racing the in-flight
	// write.
	big := strings.Repeat("x", 1<<20)
	for i := 0; i < 256 && hub.Count() > 0; i++ {
		hub.MessageAdded("teamchat", domain.Message{
			ID:      fmt.Sprintf("m%d", i),
			Content: big,
			Sender:  domain.SenderAgent,
			AgentID: "nova",
		})
	}

	assert.Equal(t, 0, hub.Count(), "stalled client was not dropped")

	// The hub keeps serving after the drop.
	hub.ComposingChanged("nova")
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub(logging.New(nil, "silent"))
	conn := dialHub(t, hub)

	hub.CloseAll()
	assert.Equal(t, 0, hub.Count())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure) ||
				websocket.IsUnexpectedCloseError(err))
			return
		}
	}
}
