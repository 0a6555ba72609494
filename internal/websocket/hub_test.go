package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad message: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestBroadcastReachesEverySession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{hub: hub, send: make(chan []byte, 4), SessionID: "a"}
	b := &Client{hub: hub, send: make(chan []byte, 4), SessionID: "b"}
	hub.register <- a
	hub.register <- b

	if err := hub.Broadcast("ORDERS_CHANGED", map[string]string{"date": "2026-03-10"}); err != nil {
		t.Fatal(err)
	}
	for _, c := range []*Client{a, b} {
		if msg := receive(t, c); msg.Type != "ORDERS_CHANGED" {
			t.Errorf("session %s got %q", c.SessionID, msg.Type)
		}
	}
}

func TestRenameKeepsSessionReachable(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{hub: hub, send: make(chan []byte, 4), SessionID: "web_tmp"}
	hub.register <- c
	hub.rename <- renameRequest{client: c, sessionID: "admin-1"}

	// The hub loop handles requests in order, so the rename has been applied
	// once the following register returns.
	other := &Client{hub: hub, send: make(chan []byte, 4), SessionID: "other"}
	hub.register <- other

	if !hub.SendToSession("admin-1", Message{Type: "HELLO"}) {
		t.Fatal("renamed session not reachable")
	}
	if msg := receive(t, c); msg.Type != "HELLO" {
		t.Errorf("got %q, want HELLO", msg.Type)
	}
	if hub.SendToSession("web_tmp", Message{Type: "HELLO"}) {
		t.Error("old session id should be gone")
	}
}

func TestControlFrames(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{hub: hub, send: make(chan []byte, 4), SessionID: "web_tmp"}
	hub.register <- c

	reply := func() map[string]string {
		t.Helper()
		select {
		case data := <-c.send:
			var m map[string]string
			if err := json.Unmarshal(data, &m); err != nil {
				t.Fatalf("bad reply: %v", err)
			}
			return m
		case <-time.After(time.Second):
			t.Fatal("no reply")
		}
		return nil
	}

	c.handle([]byte(`{"type":"SESSION_IDENTIFY","sessionId":"planner-7","msgId":"m1"}`))
	if m := reply(); m["type"] != "ACK" || m["msgId"] != "m1" {
		t.Errorf("identify reply = %v", m)
	}
	// A register after the rename returns only once the rename is applied.
	hub.register <- &Client{hub: hub, send: make(chan []byte, 1), SessionID: "sync-1"}
	if !hub.SendToSession("planner-7", Message{Type: "HELLO"}) {
		t.Error("identified session not reachable")
	}
	reply()

	c.handle([]byte(`{"type":"PING","msgId":"m2"}`))
	if m := reply(); m["type"] != "PONG" || m["msgId"] != "m2" {
		t.Errorf("ping reply = %v", m)
	}

	c.handle([]byte(`not json`))
	hub.unregister <- c
	hub.register <- &Client{hub: hub, send: make(chan []byte, 1), SessionID: "sync-2"}
	c.handle([]byte(`{"type":"PING","msgId":"m3"}`))
	if _, open := <-c.send; open {
		t.Error("dropped session should get no reply")
	}
}
