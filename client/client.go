// Package client is the connection manager used by Go frontends of the
// Courts chat: one websocket per app session, serialized sends and a
// single receive loop feeding an ordered, deduplicated message log.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/1131tariq/Courts/internal/domain"
)

const (
	eventJoinChat   = "joinChat"
	eventNewMessage = "newMessage"
)

type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

var ErrNotConnected = errors.New("not connected")

// ChatClient owns one outbound chat connection. A closed client is not
// reusable: Disconnect tears the connection down and the next Connect
// dials a fresh one.
type ChatClient struct {
	serverURL string

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool

	logMu    sync.Mutex
	log      []domain.Message
	seen     map[uint]struct{}
	onUpdate func([]domain.Message)
}

func New(serverURL string) *ChatClient {
	return &ChatClient{
		serverURL: serverURL,
		seen:      make(map[uint]struct{}),
	}
}

// OnUpdate registers a callback invoked with a snapshot of the message
// log after every append. Set it before Connect.
func (c *ChatClient) OnUpdate(fn func([]domain.Message)) {
	c.logMu.Lock()
	defer c.logMu.Unlock()

	c.onUpdate = fn
}

// Connect opens the websocket, announces presence with a joinChat event
// and starts the receive loop. Calling it while already connected is a
// no-op, so a double tap in the UI cannot open a second socket.
func (c *ChatClient) Connect(userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.Dial(c.serverURL, nil)
	if err != nil {
		return fmt.Errorf("websocket.Dial -> %w", err)
	}

	c.conn = conn
	c.connected = true

	// Announce only after the dial succeeded; the server learns who
	// owns this socket from the frame, not the transport.
	join, err := json.Marshal(map[string]string{"userId": strconv.FormatUint(uint64(userID), 10)})
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}
	if err = c.writeEnvelope(Envelope{Event: eventJoinChat, Data: join}); err != nil {
		conn.Close()
		c.conn = nil
		c.connected = false
		return fmt.Errorf("c.writeEnvelope -> %w", err)
	}

	go c.receiveLoop(conn)

	return nil
}

// Send serializes the envelope onto the wire. A transport failure is
// logged and returned; there is no automatic retry here, callers decide
// whether resending makes sense.
func (c *ChatClient) Send(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return ErrNotConnected
	}

	if err := c.writeEnvelope(env); err != nil {
		zap.L().Warn("chat send failed", zap.String("event", env.Event), zap.Error(err))
		return fmt.Errorf("c.writeEnvelope -> %w", err)
	}

	return nil
}

// SendMessage is a convenience wrapper building a sendMessage envelope.
// The timestamp is advisory; the server's persisted timestamp wins.
func (c *ChatClient) SendMessage(chatID, sender uint, content string, timestamp float64) error {
	data, err := json.Marshal(map[string]interface{}{
		"chatId":    chatID,
		"sender":    sender,
		"content":   content,
		"timestamp": timestamp,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	return c.Send(Envelope{Event: "sendMessage", Data: data})
}

// receiveLoop blocks on the next inbound frame for the lifetime of the
// connection and exits when the read fails or the socket closes. It is
// the only reader, so frames are processed strictly in arrival order.
func (c *ChatClient) receiveLoop(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
			c.connected = false
		}
		c.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("chat receive loop ended", zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			zap.L().Warn("dropping malformed inbound frame", zap.Error(err))
			continue
		}

		if env.Event != eventNewMessage {
			zap.L().Debug("ignoring inbound frame", zap.String("event", env.Event))
			continue
		}

		var message domain.Message
		if err := json.Unmarshal(env.Data, &message); err != nil {
			zap.L().Warn("dropping malformed newMessage payload", zap.Error(err))
			continue
		}

		c.append(message)
	}
}

// append adds the message to the local log unless its id was already
// seen; the optimistic local echo and the server broadcast can race and
// must not double-insert.
func (c *ChatClient) append(message domain.Message) {
	c.logMu.Lock()

	if _, dup := c.seen[message.ID]; dup {
		c.logMu.Unlock()
		return
	}
	c.seen[message.ID] = struct{}{}
	c.log = append(c.log, message)

	var snapshot []domain.Message
	if c.onUpdate != nil {
		snapshot = make([]domain.Message, len(c.log))
		copy(snapshot, c.log)
	}
	fn := c.onUpdate
	c.logMu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}

// AppendLocal records an optimistic local echo with the same dedupe
// rules as server broadcasts.
func (c *ChatClient) AppendLocal(message domain.Message) {
	c.append(message)
}

// Messages returns a copy of the ordered message log.
func (c *ChatClient) Messages() []domain.Message {
	c.logMu.Lock()
	defer c.logMu.Unlock()

	out := make([]domain.Message, len(c.log))
	copy(out, c.log)

	return out
}

// Disconnect closes the connection. The receive loop observes the close
// and winds down; a subsequent Connect dials a fresh connection.
func (c *ChatClient) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return
	}

	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
	_ = c.conn.Close()
	c.conn = nil
	c.connected = false
}

// writeEnvelope assumes c.mu is held.
func (c *ChatClient) writeEnvelope(env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	return c.conn.WriteMessage(websocket.TextMessage, payload)
}
