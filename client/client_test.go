package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1131tariq/Courts/internal/domain"
)

// relayStub stands in for the chat server: it records joins and echoes
// every sendMessage back as one or more newMessage frames.
type relayStub struct {
	upgrader websocket.Upgrader

	dials atomic.Int32
	echo  int // newMessage frames sent per inbound sendMessage

	mu    sync.Mutex
	joins []string
}

func newRelayStub(echo int) *relayStub {
	return &relayStub{echo: echo}
}

func (s *relayStub) joined() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.joins))
	copy(out, s.joins)

	return out
}

func (s *relayStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.dials.Add(1)

	var nextID uint
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			continue
		}

		switch env.Event {
		case "joinChat":
			var join struct {
				UserID string `json:"userId"`
			}
			_ = json.Unmarshal(env.Data, &join)
			s.mu.Lock()
			s.joins = append(s.joins, join.UserID)
			s.mu.Unlock()

		case "sendMessage":
			var msg struct {
				ChatID  uint   `json:"chatId"`
				Sender  uint   `json:"sender"`
				Content string `json:"content"`
			}
			_ = json.Unmarshal(env.Data, &msg)

			nextID++
			out := domain.Message{
				ID:        nextID,
				ChatID:    msg.ChatID,
				Sender:    msg.Sender,
				Content:   msg.Content,
				Timestamp: time.Now().UTC(),
			}
			data, _ := json.Marshal(out)
			frame, _ := json.Marshal(Envelope{Event: "newMessage", Data: data})
			for i := 0; i < s.echo; i++ {
				_ = conn.WriteMessage(websocket.TextMessage, frame)
			}
		}
	}
}

func stubServer(t *testing.T, echo int) (*relayStub, string) {
	t.Helper()

	stub := newRelayStub(echo)
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	return stub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitForMessages(t *testing.T, c *ChatClient, want int) []domain.Message {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		messages := c.Messages()
		if len(messages) >= want {
			return messages
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d messages, have %d", want, len(messages))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestConnectAnnouncesUser(t *testing.T) {
	stub, url := stubServer(t, 1)
	c := New(url)

	require.NoError(t, c.Connect(42))
	defer c.Disconnect()

	deadline := time.Now().Add(2 * time.Second)
	for len(stub.joined()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("server never saw a joinChat frame")
		}
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, []string{"42"}, stub.joined())
}

func TestConnectIsIdempotent(t *testing.T) {
	stub, url := stubServer(t, 1)
	c := New(url)

	require.NoError(t, c.Connect(42))
	require.NoError(t, c.Connect(42))
	require.NoError(t, c.Connect(42))
	defer c.Disconnect()

	deadline := time.Now().Add(2 * time.Second)
	for len(stub.joined()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("server never saw a joinChat frame")
		}
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, int32(1), stub.dials.Load(), "repeat Connect calls share one socket")
	assert.Len(t, stub.joined(), 1)
}

func TestSendBeforeConnect(t *testing.T) {
	c := New("ws://localhost:0")

	err := c.SendMessage(7, 42, "hello", 0)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestReceiveAppendsMessages(t *testing.T) {
	_, url := stubServer(t, 1)
	c := New(url)

	var updates atomic.Int32
	c.OnUpdate(func(messages []domain.Message) {
		updates.Add(1)
	})

	require.NoError(t, c.Connect(42))
	defer c.Disconnect()

	require.NoError(t, c.SendMessage(7, 42, "first", 0))
	require.NoError(t, c.SendMessage(7, 42, "second", 0))

	messages := waitForMessages(t, c, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)

	deadline := time.Now().Add(2 * time.Second)
	for updates.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("update callback not invoked for every append")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// The server echoes each message twice; the duplicate ids must collapse
// into one log entry.
func TestReceiveDeduplicatesByID(t *testing.T) {
	_, url := stubServer(t, 2)
	c := New(url)

	require.NoError(t, c.Connect(42))
	defer c.Disconnect()

	require.NoError(t, c.SendMessage(7, 42, "hello", 0))

	waitForMessages(t, c, 1)
	time.Sleep(50 * time.Millisecond) // give the duplicate a chance to arrive

	messages := c.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Content)
}

// An optimistic local echo and the server broadcast carry the same id;
// whichever lands second is dropped.
func TestAppendLocalDeduplicatesAgainstBroadcast(t *testing.T) {
	_, url := stubServer(t, 1)
	c := New(url)

	c.AppendLocal(domain.Message{ID: 1, ChatID: 7, Sender: 42, Content: "hello"})

	require.NoError(t, c.Connect(42))
	defer c.Disconnect()

	require.NoError(t, c.SendMessage(7, 42, "hello", 0))

	time.Sleep(100 * time.Millisecond)
	messages := c.Messages()
	require.Len(t, messages, 1)
}

func TestDisconnectThenReconnect(t *testing.T) {
	stub, url := stubServer(t, 1)
	c := New(url)

	require.NoError(t, c.Connect(42))
	c.Disconnect()

	require.NoError(t, c.Connect(42))
	defer c.Disconnect()

	deadline := time.Now().Add(2 * time.Second)
	for stub.dials.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("reconnect never reached the server")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDisconnectWithoutConnect(t *testing.T) {
	c := New("ws://localhost:0")

	c.Disconnect() // must not panic
	assert.Empty(t, c.Messages())
}
