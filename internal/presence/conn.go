package presence

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrConnClosed = errors.New("connection closed")

const sendBufferSize = 256

// Conn wraps one live websocket connection. Outbound frames go through
// a buffered channel drained by a single WritePump goroutine, so
// concurrent senders never interleave writes on the socket.
type Conn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ws:     ws,
		send:   make(chan []byte, sendBufferSize),
		closed: make(chan struct{}),
	}
}

// Send enqueues a frame for delivery. It never blocks: a closed
// connection or a full buffer fails immediately so one slow recipient
// cannot stall fan-out to the others.
func (c *Conn) Send(payload []byte) error {
	select {
	case <-c.closed:
		return ErrConnClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// WritePump drains the send channel onto the socket. It runs in its own
// goroutine for the lifetime of the connection and returns when the
// connection is closed or a write fails.
func (c *Conn) WritePump() {
	defer func() {
		_ = c.ws.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				zap.L().Debug("websocket write failed", zap.Error(err))
				c.Close()
				return
			}
		case <-c.closed:
			_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

func (c *Conn) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}
