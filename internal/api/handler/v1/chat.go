package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/1131tariq/Courts/internal/api/handler/v1/response"
	"github.com/1131tariq/Courts/internal/domain"
	"github.com/1131tariq/Courts/internal/presence"
	"github.com/1131tariq/Courts/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type ChatService interface {
	GetChats(ctx context.Context) ([]domain.Chat, error)
	GetMessages(ctx context.Context, chatID uint) ([]domain.Message, error)
	GetParticipants(ctx context.Context, chatID uint) ([]uint, error)
	SaveMessage(ctx context.Context, chatID, sender uint, content string) (domain.Message, error)
}

type ChatHandler struct {
	svc      ChatService
	registry *presence.Registry
}

func NewChatHandler(svc ChatService, registry *presence.Registry) *ChatHandler {
	return &ChatHandler{
		svc:      svc,
		registry: registry,
	}
}

// Chat frames are wrapped in {"event": ..., "data": ...}. The event set
// is closed; anything else is dropped at the boundary.
type eventKind string

const (
	eventJoinChat    eventKind = "joinChat"
	eventSendMessage eventKind = "sendMessage"
	eventNewMessage  eventKind = "newMessage"
)

type envelope struct {
	Event eventKind       `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// flexibleID tolerates user ids sent as either numbers or strings; the
// original mobile client stringifies them.
type flexibleID uint

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid user id %q", s)
	}

	*f = flexibleID(v)
	return nil
}

type joinChatPayload struct {
	UserID flexibleID `json:"userId"`
}

// Timestamp is advisory; the persisted timestamp is canonical.
type sendMessagePayload struct {
	UserID    flexibleID      `json:"userId"`
	ChatID    uint            `json:"chatId"`
	Sender    flexibleID      `json:"sender"`
	Content   string          `json:"content"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// HandleGetChats godoc
// @Summary      List chats
// @Description  Every chat with its participant ids and denormalized last message
// @Tags         chats
// @Produce      json
// @Success      200  {array}   domain.Chat
// @Failure      500  {object}  response.Err
// @Router       /chats [get]
// @Security BearerAuth
func (h *ChatHandler) HandleGetChats(ctx *gin.Context) {
	chats, err := h.svc.GetChats(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetChats -> h.svc.GetChats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, chats)
}

// HandleGetChatMessages godoc
// @Summary      Get chat messages
// @Description  Messages of a chat ascending by timestamp
// @Tags         chats
// @Produce      json
// @Param        chatID  path      int  true  "chat ID"
// @Success      200     {array}   domain.Message
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /chats/{chatID}/messages [get]
// @Security BearerAuth
func (h *ChatHandler) HandleGetChatMessages(ctx *gin.Context) {
	chatID, err := strconv.ParseUint(ctx.Param("chatID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	messages, err := h.svc.GetMessages(ctx.Request.Context(), uint(chatID))
	if err != nil {
		if errors.Is(err, service.ErrChatNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("chat", "ID", chatID))
			return
		}

		err = fmt.Errorf("v1.HandleGetChatMessages -> h.svc.GetMessages -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// HandleWebSocket godoc
// @Summary      Establish the chat WebSocket connection
// @Description  Clients announce presence with a joinChat event and then exchange sendMessage/newMessage frames
// @Tags         chats
// @Produce      json
// @Success      101  {string}  string "Switching Protocols to WebSocket"
// @Failure      500  {object}  response.Err
// @Router       /ws [get]
func (h *ChatHandler) HandleWebSocket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := presence.NewConn(ws)
	go conn.WritePump()

	h.readLoop(c.Request.Context(), ws, conn)
}

// readLoop processes inbound frames until the connection closes or
// errors. Unregistering happens before any other cleanup so the
// registry never hands out a dead connection longer than necessary.
func (h *ChatHandler) readLoop(ctx context.Context, ws *websocket.Conn, conn *presence.Conn) {
	defer func() {
		h.registry.Unregister(conn)
		conn.Close()
		_ = ws.Close()
	}()

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("websocket read failed", zap.Error(err))
			}
			return
		}

		h.dispatch(ctx, conn, payload)
	}
}

// dispatch decodes one frame and routes it by event kind. Malformed or
// unrecognized frames are dropped with a log line; nothing is surfaced
// to the sender.
func (h *ChatHandler) dispatch(ctx context.Context, conn *presence.Conn, payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		zap.L().Warn("dropping malformed chat frame", zap.Error(err))
		return
	}

	switch env.Event {
	case eventJoinChat:
		h.handleJoin(conn, env.Data)
	case eventSendMessage:
		h.handleSend(ctx, env.Data)
	default:
		zap.L().Warn("dropping unrecognized chat event", zap.String("event", string(env.Event)))
	}
}

func (h *ChatHandler) handleJoin(conn *presence.Conn, data json.RawMessage) {
	var payload joinChatPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		zap.L().Warn("dropping malformed joinChat payload", zap.Error(err))
		return
	}

	h.registry.Register(uint(payload.UserID), conn)
	zap.L().Info("user joined chat", zap.Uint("user_id", uint(payload.UserID)))
}

// handleSend runs a sendMessage event end to end: persist, resolve
// participants, fan out. A persistence failure aborts the event; a
// delivery failure to one recipient does not block the rest.
func (h *ChatHandler) handleSend(ctx context.Context, data json.RawMessage) {
	var payload sendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		zap.L().Warn("dropping malformed sendMessage payload", zap.Error(err))
		return
	}

	message, err := h.svc.SaveMessage(ctx, payload.ChatID, uint(payload.Sender), payload.Content)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			zap.L().Warn("dropping empty chat message",
				zap.Uint("chat_id", payload.ChatID),
				zap.Uint("sender", uint(payload.Sender)))
			return
		}

		zap.L().Error("failed to persist chat message", zap.Uint("chat_id", payload.ChatID), zap.Error(err))
		return
	}

	participants, err := h.svc.GetParticipants(ctx, message.ChatID)
	if err != nil {
		zap.L().Error("failed to resolve chat participants", zap.Uint("chat_id", message.ChatID), zap.Error(err))
		return
	}

	frame, err := json.Marshal(envelope{
		Event: eventNewMessage,
		Data:  mustMarshal(message),
	})
	if err != nil {
		zap.L().Error("failed to encode newMessage frame", zap.Error(err))
		return
	}

	delivered := 0
	for _, userID := range participants {
		recipient, ok := h.registry.Lookup(userID)
		if !ok {
			continue // offline, retrievable later via chat history
		}

		if err := recipient.Send(frame); err != nil {
			zap.L().Warn("failed to deliver message to participant",
				zap.Uint("user_id", userID),
				zap.Uint("message_id", message.ID),
				zap.Error(err))
			continue
		}
		delivered++
	}

	if delivered == 0 {
		zap.L().Info("message persisted with no connected recipients",
			zap.Uint("chat_id", message.ChatID),
			zap.Uint("message_id", message.ID))
	}
}

func mustMarshal(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return data
}
