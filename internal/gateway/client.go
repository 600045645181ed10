package gateway

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBufferSize = 64
)

// Client is one live websocket session bound to an authenticated user.
type Client struct {
	id        string
	userID    uint64
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	hub       *Hub
	notifFeed bool
	mu        sync.Mutex
	closeOnce sync.Once
}

func newClient(id string, userID uint64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		id:     id,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		hub:    hub,
	}
}

func (c *Client) joinedNotifFeed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notifFeed
}

func (c *Client) setNotifFeed(joined bool) {
	c.mu.Lock()
	c.notifFeed = joined
	c.mu.Unlock()
}

// enqueue drops the frame rather than blocking the hub on a slow consumer.
// The send channel is never closed, so a push racing the session teardown
// is dropped instead of panicking.
func (c *Client) enqueue(data []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- data:
	default:
		log.Printf("session %s send buffer full, dropping frame", c.id)
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// readPump reads inbound envelopes and hands them to the hub until the
// connection dies. Malformed frames are answered, never fatal.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("session %s read error: %v", c.id, err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendAck(Ack{Event: EventAck, Error: "malformed envelope"})
			continue
		}
		c.hub.dispatch(c, &env)
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings. One writer per connection; gorilla allows at most one.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

func (c *Client) sendAck(ack Ack) {
	data, err := json.Marshal(ack)
	if err != nil {
		log.Printf("failed to marshal ack: %v", err)
		return
	}
	c.enqueue(data)
}
