package realtime

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 64
)

var errSendBufferFull = errors.New("send buffer full")

// Client binds one websocket connection to the relay. Outbound events go
// through a buffered channel drained by a writer goroutine; a full buffer
// drops the event rather than blocking a broadcast.
type Client struct {
	conn  *websocket.Conn
	relay *Relay
	send  chan Event
	addr  string

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, relay *Relay) *Client {
	return &Client{
		conn:  conn,
		relay: relay,
		send:  make(chan Event, sendBufferSize),
		addr:  conn.RemoteAddr().String(),
	}
}

// Send queues an event for delivery. Non-blocking: it fails when the
// connection is closed or its buffer is full.
func (c *Client) Send(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- ev:
		return nil
	default:
		return errSendBufferFull
	}
}

// Run services the connection until it terminates. It starts the writer
// goroutine and blocks in the read loop; each inbound event is handled to
// completion before the next is read.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var ev Event
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[relay][conn] read error from %s: %v", c.addr, err)
			}
			return
		}
		c.relay.HandleEvent(c, ev)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.relay.Disconnect(c)
	close(c.send)
}
