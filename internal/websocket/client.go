package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
	// keepalive must fire before idleTimeout expires on the peer side
	keepalive = idleTimeout * 9 / 10

	// Sessions only send small control frames
	maxControlFrame = 4 * 1024
	sendBuffer      = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The storefront and admin UI are served from other origins
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one UI session. The hub owns send and closes it when the
// session is dropped or replaced.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// Session ID, replaced by the UI's own id after SESSION_IDENTIFY
	SessionID string
}

// control is an inbound frame from the UI.
type control struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	MsgID     string `json:"msgId,omitempty"`
}

// handle answers one control frame. Unknown or malformed frames are ignored.
func (c *Client) handle(raw []byte) {
	var msg control
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	switch msg.Type {
	case "SESSION_IDENTIFY":
		if msg.SessionID != "" {
			c.hub.rename <- renameRequest{client: c, sessionID: msg.SessionID}
		}
		c.hub.reply(c, map[string]string{"type": "ACK", "msgId": msg.MsgID, "status": "connected"})
	case "PING":
		c.hub.reply(c, map[string]string{"type": "PONG", "msgId": msg.MsgID})
	}
}

// listen reads control frames until the peer goes away, then leaves the hub.
func (c *Client) listen() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	extend := func() error { return c.conn.SetReadDeadline(time.Now().Add(idleTimeout)) }
	c.conn.SetReadLimit(maxControlFrame)
	extend()
	c.conn.SetPongHandler(func(string) error { return extend() })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️  WS session %s: %v", c.SessionID, err)
			}
			return
		}
		c.handle(raw)
	}
}

// deliver writes queued notifications and keepalive pings. It stops when the
// hub closes send or a write fails.
func (c *Client) deliver() {
	ping := time.NewTicker(keepalive)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	write := func(kind int, data []byte) error {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return c.conn.WriteMessage(kind, data)
	}

	for {
		select {
		case data, open := <-c.send:
			if !open {
				write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := write(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and registers an anonymous session that
// receives broadcasts until the UI identifies itself.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WS upgrade failed: %v", err)
		return
	}
	client := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		SessionID: "web_" + uuid.New().String(),
	}
	hub.register <- client

	go client.deliver()
	go client.listen()
}
