package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1131tariq/Courts/internal/domain"
	"github.com/1131tariq/Courts/internal/presence"
	"github.com/1131tariq/Courts/internal/service"
)

type stubChatService struct {
	chats        []domain.Chat
	participants []uint
	messages     []domain.Message
	messagesErr  error

	mu    sync.Mutex
	saved []domain.Message
}

func (s *stubChatService) GetChats(_ context.Context) ([]domain.Chat, error) {
	return s.chats, nil
}

func (s *stubChatService) GetMessages(_ context.Context, _ uint) ([]domain.Message, error) {
	return s.messages, s.messagesErr
}

func (s *stubChatService) GetParticipants(_ context.Context, _ uint) ([]uint, error) {
	return s.participants, nil
}

func (s *stubChatService) SaveMessage(_ context.Context, chatID, sender uint, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, service.ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	message := domain.Message{
		ID:        uint(len(s.saved) + 1),
		ChatID:    chatID,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	s.saved = append(s.saved, message)

	return message, nil
}

func (s *stubChatService) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.saved)
}

func chatTestServer(t *testing.T, svc ChatService) (*httptest.Server, *presence.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := presence.NewRegistry()
	handler := NewChatHandler(svc, registry)

	router := gin.New()
	router.GET("/chats", handler.HandleGetChats)
	router.GET("/chats/:chatID/messages", handler.HandleGetChatMessages)
	router.GET("/ws", handler.HandleWebSocket)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, registry
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dialAndJoin(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	join := `{"event":"joinChat","data":{"userId":` + userID + `}}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(join)))

	return conn
}

func waitForPresence(t *testing.T, registry *presence.Registry, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for registry.Len() < want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d registered connections", want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(payload, &env))

	return env
}

// Two of three chat participants are connected. A message from one must
// be persisted, then delivered to both connected participants and to no
// one else; the offline participant catches up via chat history.
func TestWebSocketRelay(t *testing.T) {
	svc := &stubChatService{participants: []uint{1, 2, 3}}
	srv, registry := chatTestServer(t, svc)

	sender := dialAndJoin(t, srv, "1")
	receiver := dialAndJoin(t, srv, `"2"`) // ids arrive stringified from some clients
	waitForPresence(t, registry, 2)

	send := `{"event":"sendMessage","data":{"chatId":7,"sender":1,"content":"game at 6?","timestamp":1741600000.25}}`
	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte(send)))

	for _, conn := range []*websocket.Conn{sender, receiver} {
		env := readEnvelope(t, conn)
		assert.Equal(t, eventNewMessage, env.Event)

		var message domain.Message
		require.NoError(t, json.Unmarshal(env.Data, &message))
		assert.Equal(t, uint(1), message.ID)
		assert.Equal(t, uint(7), message.ChatID)
		assert.Equal(t, uint(1), message.Sender)
		assert.Equal(t, "game at 6?", message.Content)
		assert.False(t, message.Timestamp.IsZero())
	}

	require.Equal(t, 1, svc.savedCount(), "message is persisted before fan-out")
}

// A malformed frame and an unknown event are dropped without tearing
// down the connection; a later well-formed frame still goes through.
func TestWebSocketDropsBadFrames(t *testing.T) {
	svc := &stubChatService{participants: []uint{1}}
	srv, registry := chatTestServer(t, svc)

	conn := dialAndJoin(t, srv, "1")
	waitForPresence(t, registry, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"selfDestruct","data":{}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"sendMessage","data":{"chatId":7,"sender":1,"content":"still here"}}`)))

	env := readEnvelope(t, conn)
	assert.Equal(t, eventNewMessage, env.Event)
	require.Equal(t, 1, svc.savedCount())
}

// A whitespace-only message is rejected before persistence; nothing is
// broadcast for it.
func TestWebSocketDropsEmptyMessage(t *testing.T) {
	svc := &stubChatService{participants: []uint{1}}
	srv, registry := chatTestServer(t, svc)

	conn := dialAndJoin(t, srv, "1")
	waitForPresence(t, registry, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"sendMessage","data":{"chatId":7,"sender":1,"content":"   "}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"sendMessage","data":{"chatId":7,"sender":1,"content":"real one"}}`)))

	env := readEnvelope(t, conn)
	var message domain.Message
	require.NoError(t, json.Unmarshal(env.Data, &message))
	assert.Equal(t, "real one", message.Content)
	require.Equal(t, 1, svc.savedCount(), "only the non-empty message is persisted")
}

// Closing the socket unregisters the user from the presence registry.
func TestWebSocketDisconnectUnregisters(t *testing.T) {
	svc := &stubChatService{}
	srv, registry := chatTestServer(t, svc)

	conn := dialAndJoin(t, srv, "1")
	waitForPresence(t, registry, 1)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for registry.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection was not unregistered after close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHandleGetChats(t *testing.T) {
	svc := &stubChatService{chats: []domain.Chat{
		{ID: 7, Participants: []uint{1, 2}},
	}}
	srv, _ := chatTestServer(t, svc)

	resp, err := http.Get(srv.URL + "/chats")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var chats []domain.Chat
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&chats))
	require.Len(t, chats, 1)
	assert.Equal(t, []uint{1, 2}, chats[0].Participants)
}

func TestHandleGetChatMessagesUnknownChat(t *testing.T) {
	svc := &stubChatService{messagesErr: service.ErrChatNotFound}
	srv, _ := chatTestServer(t, svc)

	resp, err := http.Get(srv.URL + "/chats/99/messages")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
